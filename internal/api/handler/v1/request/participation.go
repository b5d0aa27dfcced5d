package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type JoinEventRequest struct {
	EventID uint `json:"event_id"`
}

func (req *JoinEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
	)
}

type RequestParticipationRequest struct {
	EventID uint   `json:"event_id"`
	Message string `json:"message"`
}

func (req *RequestParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Message, validation.Length(0, 500)),
	)
}

type AcceptParticipationRequest struct {
	ParticipationID uint `json:"participation_id"`
}

func (req *AcceptParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipationID, validation.Required),
	)
}

type RejectParticipationRequest struct {
	ParticipationID uint `json:"participation_id"`
}

func (req *RejectParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipationID, validation.Required),
	)
}

type CancelParticipationRequest struct {
	ParticipationID uint `json:"participation_id"`
}

func (req *CancelParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipationID, validation.Required),
	)
}
