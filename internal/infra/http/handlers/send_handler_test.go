package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/relaunchapp/followup-service/internal/infra/queue"
	"github.com/relaunchapp/followup-service/internal/usecase"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Execute(ctx context.Context, input usecase.DispatchInput) (*usecase.DispatchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DispatchResult), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishDispatch(ctx context.Context, payload queue.DispatchPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestSendHandlerSuccess(t *testing.T) {
	dispatcher := new(MockDispatcher)
	handler := NewSendHandler(dispatcher, new(MockProducer))

	dispatcher.On("Execute", mock.Anything, usecase.DispatchInput{
		ProspectID: "p1",
		Mode:       usecase.ModeInteractive,
	}).Return(&usecase.DispatchResult{
		Success:    true,
		Message:    "email sent",
		TemplateID: "tpl-1",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"prospect_id":"p1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	dispatcher.AssertExpectations(t)
}

func TestSendHandlerDuplicateIsStillOK(t *testing.T) {
	dispatcher := new(MockDispatcher)
	handler := NewSendHandler(dispatcher, new(MockProducer))

	dispatcher.On("Execute", mock.Anything, mock.Anything).Return(&usecase.DispatchResult{
		Success:   true,
		Duplicate: true,
		Message:   "email already sent for this template",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"prospect_id":"p1","template_id":"tpl-1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duplicate":true`)
}

func TestSendHandlerDomainErrorMapsTo400(t *testing.T) {
	dispatcher := new(MockDispatcher)
	handler := NewSendHandler(dispatcher, new(MockProducer))

	dispatcher.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeValidation, Message: "prospect not found"})

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"prospect_id":"missing"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "prospect not found")
}

func TestSendHandlerConfigMissingMapsTo500(t *testing.T) {
	dispatcher := new(MockDispatcher)
	handler := NewSendHandler(dispatcher, new(MockProducer))

	dispatcher.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeConfigMissing, Message: "email settings not configured"})

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"prospect_id":"p1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSendHandlerTransportFailureMapsTo502(t *testing.T) {
	dispatcher := new(MockDispatcher)
	handler := NewSendHandler(dispatcher, new(MockProducer))

	dispatcher.On("Execute", mock.Anything, mock.Anything).
		Return(&usecase.DispatchResult{
			Success: false,
			Message: "failed to send email: connection refused",
		}, &usecase.TechnicalError{Code: usecase.CodeTransportFailure, Message: "send failed"})

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"prospect_id":"p1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to send email")
}

func TestSendHandlerRejectsBadJSON(t *testing.T) {
	handler := NewSendHandler(new(MockDispatcher), new(MockProducer))

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendHandlerAsyncEnqueues(t *testing.T) {
	producer := new(MockProducer)
	handler := NewSendHandler(new(MockDispatcher), producer)

	producer.On("PublishDispatch", mock.Anything, queue.DispatchPayload{
		ProspectID: "p1",
		TemplateID: "tpl-2",
		Origin:     "API_ASYNC",
	}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/send/async", strings.NewReader(`{"prospect_id":"p1","template_id":"tpl-2"}`))
	rec := httptest.NewRecorder()

	handler.HandleAsync(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queued":true`)
	producer.AssertExpectations(t)
}

func TestSendHandlerAsyncRequiresProspectID(t *testing.T) {
	handler := NewSendHandler(new(MockDispatcher), new(MockProducer))

	req := httptest.NewRequest(http.MethodPost, "/send/async", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.HandleAsync(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
