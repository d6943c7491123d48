package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:        "Tee",
		Description: "Cotton tee",
		Price:       PriceOf(29.99),
		Category:    CategoryReadyToWear,
		ImageURL:    "https://example.com/a.jpg",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		want   []string
	}{
		{
			name:   "valid input",
			modify: func(*Input) {},
		},
		{
			name:   "blank name",
			modify: func(in *Input) { in.Name = "   " },
			want:   []string{MsgNameRequired},
		},
		{
			name:   "empty description",
			modify: func(in *Input) { in.Description = "" },
			want:   []string{MsgDescriptionRequired},
		},
		{
			name:   "zero price",
			modify: func(in *Input) { in.Price = PriceOf(0) },
			want:   []string{MsgPriceInvalid},
		},
		{
			name:   "negative price",
			modify: func(in *Input) { in.Price = PriceOf(-5) },
			want:   []string{MsgPriceInvalid},
		},
		{
			name:   "missing price",
			modify: func(in *Input) { in.Price = Price{} },
			want:   []string{MsgPriceInvalid},
		},
		{
			name:   "unknown category",
			modify: func(in *Input) { in.Category = "SHOES2" },
			want:   []string{MsgCategoryInvalid},
		},
		{
			name:   "category is case sensitive",
			modify: func(in *Input) { in.Category = "shoes" },
			want:   []string{MsgCategoryInvalid},
		},
		{
			name:   "blank category",
			modify: func(in *Input) { in.Category = " " },
			want:   []string{MsgCategoryRequired},
		},
		{
			name:   "category is trimmed before matching",
			modify: func(in *Input) { in.Category = " SHOES " },
		},
		{
			name:   "relative image url",
			modify: func(in *Input) { in.ImageURL = "not-a-url" },
			want:   []string{MsgImageURLInvalid},
		},
		{
			name:   "missing image url",
			modify: func(in *Input) { in.ImageURL = "" },
			want:   []string{MsgImageURLRequired},
		},
		{
			name: "all four errors accumulate",
			modify: func(in *Input) {
				in.Name = ""
				in.Price = PriceOf(0)
				in.Category = "SHOES2"
				in.ImageURL = "not-a-url"
			},
			want: []string{MsgNameRequired, MsgPriceInvalid, MsgCategoryInvalid, MsgImageURLInvalid},
		},
		{
			name:   "everything missing",
			modify: func(in *Input) { *in = Input{} },
			want: []string{
				MsgNameRequired,
				MsgDescriptionRequired,
				MsgPriceInvalid,
				MsgCategoryRequired,
				MsgImageURLRequired,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)

			got := Validate(in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_PriceFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		price string
		valid bool
	}{
		{name: "number", price: `29.99`, valid: true},
		{name: "numeric string", price: `"39.99"`, valid: true},
		{name: "padded numeric string", price: `" 5 "`, valid: true},
		{name: "non numeric string", price: `"abc"`},
		{name: "empty string", price: `""`},
		{name: "null", price: `null`},
		{name: "boolean", price: `true`},
		{name: "NaN string", price: `"NaN"`},
		{name: "infinite string", price: `"Inf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"name":"Tee","description":"Cotton tee","price":` + tt.price +
				`,"category":"SHOES","imageUrl":"https://example.com/a.jpg"}`

			var in Input
			require.NoError(t, json.Unmarshal([]byte(body), &in))

			errs := Validate(in)
			if tt.valid {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, []string{MsgPriceInvalid}, errs)
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	in := Input{
		Name:        "  Boot ",
		Description: " Leather boot ",
		Price:       PriceOf(120),
		Category:    " SHOES",
		ImageURL:    " https://example.com/boot.jpg ",
	}
	p := Product{ID: "keep-me"}.Apply(in)

	assert.Equal(t, "keep-me", p.ID)
	assert.Equal(t, "Boot", p.Name)
	assert.Equal(t, "Leather boot", p.Description)
	assert.InDelta(t, 120.0, p.Price, 1e-9)
	assert.Equal(t, CategoryShoes, p.Category)
	assert.Equal(t, "https://example.com/boot.jpg", p.ImageURL)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Messages: []string{MsgNameRequired, MsgPriceInvalid}}
	assert.Equal(t, "invalid product: Product name is required; Valid price is required", err.Error())
}
