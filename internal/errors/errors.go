package errors

import (
	"errors"
	"fmt"
)

const (
	ErrorFailedToConnectToTheDatabase = "Failed to connect to the database"
	ErrorFailedToRunTheServer         = "Failed to run the server"
	ErrorFailedToShutdownTheServer    = "Failed to shutdown the server"
	ErrFailedDecodeRequestBody        = "Failed to decode request body"
	ErrInvalidRequestBody             = "Invalid request body"
	ErrFailedStartCheckout            = "Failed to start checkout"
	ErrFailedHandleCallback           = "Failed to handle payment callback"
	ErrCartCodeRequired               = "cart_code is required"
	ErrReferenceRequired              = "Payment reference is required"
	ErrUserIDRequired                 = "User ID is required"
	ErrInvalidUserID                  = "Invalid User ID"
	ErrUnknownGateway                 = "Unknown payment gateway"
)

type BadRequestError struct {
	Message string
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Bad request: %s", e.Message)
}

type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

type AlreadyPaidError struct{}

func NewAlreadyPaidError() *AlreadyPaidError {
	return &AlreadyPaidError{}
}

func (e *AlreadyPaidError) Error() string {
	return "cart has already been paid for"
}

// InvalidTransitionError means the transaction already left the pending state.
// It signals a duplicate or late reconciliation attempt, not a failure.
type InvalidTransitionError struct{}

func NewInvalidTransitionError() *InvalidTransitionError {
	return &InvalidTransitionError{}
}

func (e *InvalidTransitionError) Error() string {
	return "transaction is not pending"
}

type DuplicateReferenceError struct{}

func NewDuplicateReferenceError() *DuplicateReferenceError {
	return &DuplicateReferenceError{}
}

func (e *DuplicateReferenceError) Error() string {
	return "transaction reference already exists"
}

// GatewayUnreachableError covers transport failures and timeouts on calls to a
// payment provider. The charge may or may not have happened on the provider
// side.
type GatewayUnreachableError struct {
	Err error
}

func NewGatewayUnreachableError(err error) *GatewayUnreachableError {
	return &GatewayUnreachableError{Err: err}
}

func (e *GatewayUnreachableError) Error() string {
	return fmt.Sprintf("payment gateway unreachable: %v", e.Err)
}

func (e *GatewayUnreachableError) Unwrap() error {
	return e.Err
}

type GatewayRejectedError struct {
	Details string
}

func NewGatewayRejectedError(details string) *GatewayRejectedError {
	return &GatewayRejectedError{Details: details}
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected the request: %s", e.Details)
}

type VerificationMismatchError struct {
	Reason string
}

func NewVerificationMismatchError(reason string) *VerificationMismatchError {
	return &VerificationMismatchError{Reason: reason}
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("payment verification failed: %s", e.Reason)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
