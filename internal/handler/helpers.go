package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/comercial2hermanos/sistema-c2h/internal/apierror"
	"github.com/comercial2hermanos/sistema-c2h/internal/domainerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes. Business rejections
// (stock, sobrepago, protecciones) are conflicts; anything unrecognized goes
// through the ErrorHandler middleware as a 500.
func respondError(c *gin.Context, err error) {
	var (
		stockErr     *domainerr.StockInsuficienteError
		sobrepagoErr *domainerr.SobrepagoError
		protegidoErr *domainerr.ProtegidoError
		noEncErr     *domainerr.NoEncontradoError
		validErr     *domainerr.ValidacionError
	)
	switch {
	case errors.As(err, &stockErr), errors.As(err, &sobrepagoErr), errors.As(err, &protegidoErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &noEncErr):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &validErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
