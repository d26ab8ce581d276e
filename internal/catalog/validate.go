package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"flood-watch/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateAlert(a models.Alert) error {
	if err := check(a); err != nil {
		return &RecordError{Kind: "alert", ID: a.ID, Reason: err.Error()}
	}
	return nil
}

func validateRoute(r models.Route) error {
	if err := check(r); err != nil {
		return &RecordError{Kind: "route", ID: r.ID, Reason: err.Error()}
	}
	return nil
}

func check(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, describe(fe))
	}
	return errors.New(strings.Join(reasons, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s %q is not one of [%s]", fe.Field(), fe.Value(), fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s %v is not a valid %s", fe.Field(), fe.Value(), fe.Tag())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func clonePoint(p *models.Point) *models.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func validateRequest(r models.HelpRequest) error {
	if err := check(r); err != nil {
		return &RecordError{Kind: "request", ID: r.ID, Reason: err.Error()}
	}
	return nil
}

func validateTeam(t models.Team) error {
	if err := check(t); err != nil {
		return &RecordError{Kind: "team", ID: t.ID, Reason: err.Error()}
	}
	return nil
}

func validateCase(c models.EmergencyCase) error {
	if err := check(c); err != nil {
		return &RecordError{Kind: "case", ID: c.ID, Reason: err.Error()}
	}
	return nil
}
