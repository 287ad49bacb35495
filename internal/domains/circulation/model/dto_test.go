package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateHoldRequest_Validate(t *testing.T) {
	assert.NoError(t, CreateHoldRequest{BookID: uuid.NewString()}.Validate())
	assert.Error(t, CreateHoldRequest{}.Validate())
	assert.Error(t, CreateHoldRequest{BookID: "not-a-uuid"}.Validate())
}

func TestBorrowBookRequest_Validate(t *testing.T) {
	valid := BorrowBookRequest{
		ReaderID: uuid.NewString(),
		BookID:   uuid.NewString(),
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, BorrowBookRequest{BookID: uuid.NewString()}.Validate())
	assert.Error(t, BorrowBookRequest{ReaderID: uuid.NewString()}.Validate())
	assert.Error(t, BorrowBookRequest{ReaderID: "abc", BookID: uuid.NewString()}.Validate())
}

func TestAcceptHoldRequest_Validate(t *testing.T) {
	assert.NoError(t, AcceptHoldRequest{HoldID: uuid.NewString()}.Validate())
	assert.Error(t, AcceptHoldRequest{}.Validate())
	assert.Error(t, AcceptHoldRequest{HoldID: "not-a-uuid"}.Validate())
}
