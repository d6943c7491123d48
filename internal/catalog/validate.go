package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgNameRequired        = "Product name is required"
	MsgDescriptionRequired = "Product description is required"
	MsgPriceInvalid        = "Valid price is required"
	MsgCategoryRequired    = "Product category is required"
	MsgImageURLRequired    = "Product image URL is required"
	MsgImageURLInvalid     = "Invalid image URL format"
)

// MsgCategoryInvalid names every accepted category so the front end can show it as is.
var MsgCategoryInvalid = "Invalid category. Must be one of: " + strings.Join(Categories, ", ")

// draft is the trimmed, typed view of an Input that the rules run against.
// A nil Price means the caller sent nothing usable as a number.
type draft struct {
	Name        string   `validate:"required"`
	Description string   `validate:"required"`
	Price       *float64 `validate:"required,gt=0"`
	Category    string   `validate:"required,category"`
	ImageURL    string   `validate:"required,url"`
}

var ruleMessages = map[string]string{
	"Name.required":        MsgNameRequired,
	"Description.required": MsgDescriptionRequired,
	"Price.required":       MsgPriceInvalid,
	"Price.gt":             MsgPriceInvalid,
	"Category.required":    MsgCategoryRequired,
	"Category.category":    MsgCategoryInvalid,
	"ImageURL.required":    MsgImageURLRequired,
	"ImageURL.url":         MsgImageURLInvalid,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsCategory reports whether c is one of the accepted categories (exact match).
func IsCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// Validate checks every rule independently and returns the violated ones in
// rule order. An empty result means the input can be stored.
func Validate(in Input) []string {
	d := draft{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if f, ok := in.Price.Float(); ok {
		d.Price = &f
	}

	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := ruleMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// Apply returns p with every mutable field replaced by the trimmed values of
// in. The input must have passed Validate.
func (p Product) Apply(in Input) Product {
	price, _ := in.Price.Float()
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = price
	p.Category = strings.TrimSpace(in.Category)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	return p
}
