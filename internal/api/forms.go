package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// ValidationError lists every field that failed client-side validation
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "\n")
}

// Validate checks v against its validate tags
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	unit := "characters"
	if fe.Kind() == reflect.Slice {
		unit = "items"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s %s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must have at most %s %s", field, fe.Param(), unit)
	case "len":
		return fmt.Sprintf("%s must have exactly %s %s", field, fe.Param(), unit)
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "file":
		return fmt.Sprintf("%s must be an existing file", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// DigitsOnly strips an input mask, keeping only digits
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// ISODate converts dd/mm/yyyy or ddmmyyyy to yyyy-mm-dd. Other input is
// returned unchanged.
func ISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
	}
	if len(s) == 8 && DigitsOnly(s) == s {
		return fmt.Sprintf("%s-%s-%s", s[4:8], s[2:4], s[0:2])
	}
	return s
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// Address is the location block shared by both profile forms
type Address struct {
	CEP      string `form:"cep" validate:"omitempty,len=8,numeric"`
	State    string `form:"estado"`
	City     string `form:"cidade"`
	District string `form:"bairro"`
	Street   string `form:"rua"`
}

// FreelancerForm is the developer profile submitted to /freelancer/cadastrar
type FreelancerForm struct {
	UserID    int64    `form:"id_usuario"`
	Nickname  string   `form:"apelido" validate:"required"`
	Document  string   `form:"cpf_cnpj"`
	Phone     string   `form:"telefone"`
	Address   Address  `form:"-"`
	Area      string   `form:"area_de_atuacao"`
	Bio       string   `form:"biografia"`
	Seniority string   `form:"senioridade" validate:"required"`
	Skills    []string `form:"habilidades" validate:"min=1,max=3,dive,required"`
	BirthDate string   `form:"data_nascimento"`
	Photo     string   `form:"foto" validate:"omitempty,file"`
}

// Normalize strips masks and converts the birth date to ISO format
func (f FreelancerForm) Normalize() FreelancerForm {
	f.Document = DigitsOnly(f.Document)
	f.Phone = DigitsOnly(f.Phone)
	f.Address.CEP = DigitsOnly(f.Address.CEP)
	f.BirthDate = ISODate(f.BirthDate)
	return f
}

// CompanyForm is the company profile submitted to /empresa/cadastrar
type CompanyForm struct {
	Document string  `form:"cpf_cnpj"`
	Phone    string  `form:"telefone"`
	Address  Address `form:"-"`
	Area     string  `form:"area_de_atuacao"`
	Bio      string  `form:"biografia"`
	Balance  int     `form:"saldo" validate:"gte=0"`
	Photo    string  `form:"foto" validate:"omitempty,file"`
}

// DefaultCompanyBalance is the starting balance of a new company account
const DefaultCompanyBalance = 5000

// Normalize strips masks from the document, phone and CEP
func (f CompanyForm) Normalize() CompanyForm {
	f.Document = DigitsOnly(f.Document)
	f.Phone = DigitsOnly(f.Phone)
	f.Address.CEP = DigitsOnly(f.Address.CEP)
	return f
}
