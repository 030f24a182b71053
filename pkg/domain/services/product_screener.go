package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vsinha/replenish/pkg/domain/entities"
)

// ReasonNeverDepletes is reported for products without consumption
const ReasonNeverDepletes = "never depletes: weekly consumption is zero"

// ProductScreener decides which products can take part in a recommendation run.
// Records with implausible numbers are excluded individually instead of failing the run.
type ProductScreener struct {
	validate *validator.Validate
	capacity CapacityChecker
}

// productCheck is the numeric view of a product that validation runs against
type productCheck struct {
	WeeklyConsumption      int64   `json:"weeklyConsumption" validate:"gte=0"`
	TargetStockOnHandWeeks int     `json:"targetStockOnHandWeeks" validate:"gt=0"`
	PiecesPerPallet        int     `json:"piecesPerPallet" validate:"gt=0"`
	VolumePerPallet        float64 `json:"volumePerPallet" validate:"finite,gt=0"`
	VolumePerCarton        float64 `json:"volumePerCarton" validate:"finite,gt=0"`
}

// NewProductScreener creates a screener that also rejects cartons larger than a container
func NewProductScreener(capacity CapacityChecker) *ProductScreener {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return &ProductScreener{validate: v, capacity: capacity}
}

// Screen returns an empty reason when the product is eligible, otherwise why it is excluded
func (s *ProductScreener) Screen(product *entities.Product) string {
	check := productCheck{
		WeeklyConsumption:      int64(product.WeeklyConsumption),
		TargetStockOnHandWeeks: product.TargetStockOnHandWeeks,
		PiecesPerPallet:        product.PiecesPerPallet,
		VolumePerPallet:        product.VolumePerPallet,
		VolumePerCarton:        product.VolumePerCarton(),
	}

	if err := s.validate.Struct(check); err != nil {
		return describeValidationError(err)
	}

	if product.WeeklyConsumption == 0 {
		return ReasonNeverDepletes
	}

	if !s.capacity.Fits(check.VolumePerCarton) {
		return fmt.Sprintf(
			"carton volume %.4f m3 exceeds container capacity %.2f m3",
			check.VolumePerCarton,
			s.capacity.CapacityM3,
		)
	}

	return ""
}

func describeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fe := validationErrors[0]
	switch fe.Tag() {
	case "finite":
		return fmt.Sprintf("%s must be a finite number", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
