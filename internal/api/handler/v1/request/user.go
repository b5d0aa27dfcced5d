package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (req *UpdatePasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.OldPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	if ok, _ := passwordExp.MatchString(req.NewPassword); !ok {
		return errInvalidPassword
	}

	return nil
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

func (req *UpdateEmailRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type UpdatePreferencesRequest struct {
	Preferences []string `json:"preferences"`
}

func (req *UpdatePreferencesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Preferences, validation.NotNil),
	)
}
