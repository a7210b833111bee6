package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// cardServerInfo implements jsonapi.ServerInformation for testing
type cardServerInfo struct{}

func (c cardServerInfo) GetVersion() string { return "1.0.0" }
func (c cardServerInfo) GetURI() string     { return "/api/cds/" }
func (c cardServerInfo) GetPrefix() string  { return "/api/cds/" }
func (c cardServerInfo) GetBaseURL() string { return "http://localhost:8080" }

func TestHandlerDependency(t *testing.T) {
	logger := logrus.New()
	ctx := context.Background()

	hd := HandlerDependency{l: logger, ctx: ctx}

	if hd.Logger() != logger {
		t.Error("Logger() did not return the expected logger")
	}
	if hd.Context() != ctx {
		t.Error("Context() did not return the expected context")
	}
}

func TestHandlerContext(t *testing.T) {
	si := &cardServerInfo{}
	hc := HandlerContext{si: si}

	if hc.ServerInformation() != si {
		t.Error("ServerInformation() did not return the expected server information")
	}
}

type cardInput struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			Level uint32 `json:"level"`
		} `json:"attributes"`
	} `json:"data"`
}

func TestParseInput_Success(t *testing.T) {
	hd := &HandlerDependency{l: logrus.New(), ctx: context.Background()}
	hc := &HandlerContext{si: &cardServerInfo{}}

	var received cardInput
	inner := func(d *HandlerDependency, c *HandlerContext, model cardInput) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			received = model
			w.WriteHeader(http.StatusOK)
		}
	}

	body := `{"data": {"type": "cards", "attributes": {"level": 3}}}`
	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	ParseInput[cardInput](hd, hc, inner)(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if received.Data.Attributes.Level != 3 {
		t.Errorf("Expected level 3, got %d", received.Data.Attributes.Level)
	}
}

func TestParseInput_InvalidJSON(t *testing.T) {
	hd := &HandlerDependency{l: logrus.New(), ctx: context.Background()}
	hc := &HandlerContext{si: &cardServerInfo{}}

	inner := func(d *HandlerDependency, c *HandlerContext, model cardInput) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(`{"data": nope}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	ParseInput[cardInput](hd, hc, inner)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestRegisterHandler_ReturnsFunction(t *testing.T) {
	logger := logrus.New()

	registrar := RegisterHandler(logger)
	if registrar == nil {
		t.Fatal("RegisterHandler() returned nil")
	}

	inner := func(d *HandlerDependency, c *HandlerContext) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
	}

	handlerFunc := registrar(&cardServerInfo{})("get_card", inner)
	if handlerFunc == nil {
		t.Error("RegisterHandler()(si)(name, handler) returned nil")
	}
}

func TestRegisterInputHandler_ReturnsFunction(t *testing.T) {
	logger := logrus.New()

	registrar := RegisterInputHandler[cardInput](logger)
	if registrar == nil {
		t.Fatal("RegisterInputHandler() returned nil")
	}

	inner := func(d *HandlerDependency, c *HandlerContext, model cardInput) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
	}

	handlerFunc := registrar(&cardServerInfo{})("create_card", inner)
	if handlerFunc == nil {
		t.Error("RegisterInputHandler()(si)(name, handler) returned nil")
	}
}

func TestParseCardId(t *testing.T) {
	logger := logrus.New()

	var got uint32
	handler := ParseCardId(logger, func(cardId uint32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got = cardId
			w.WriteHeader(http.StatusOK)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/cards/42", nil)
	req = mux.SetURLVars(req, map[string]string{"cardId": "42"})
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got != 42 {
		t.Errorf("Expected cardId 42, got %d", got)
	}
}

func TestParseCardId_Invalid(t *testing.T) {
	logger := logrus.New()

	handler := ParseCardId(logger, func(cardId uint32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/cards/limits", nil)
	req = mux.SetURLVars(req, map[string]string{"cardId": "limits"})
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestParseCharacterId(t *testing.T) {
	logger := logrus.New()

	var got uint32
	handler := ParseCharacterId(logger, func(characterId uint32) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got = characterId
			w.WriteHeader(http.StatusOK)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/characters/7/cards", nil)
	req = mux.SetURLVars(req, map[string]string{"characterId": "7"})
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got != 7 {
		t.Errorf("Expected characterId 7, got %d", got)
	}
}
