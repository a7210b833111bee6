package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jtumidanski/api2go/jsonapi"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// HandlerDependency carries the per-request logger and context
type HandlerDependency struct {
	l   logrus.FieldLogger
	ctx context.Context
}

// Logger returns the request logger
func (h HandlerDependency) Logger() logrus.FieldLogger {
	return h.l
}

// Context returns the request context
func (h HandlerDependency) Context() context.Context {
	return h.ctx
}

// HandlerContext carries server information for response marshalling
type HandlerContext struct {
	si jsonapi.ServerInformation
}

// ServerInformation returns the server information
func (h HandlerContext) ServerInformation() jsonapi.ServerInformation {
	return h.si
}

// GetHandler produces a http.HandlerFunc from the request dependencies
type GetHandler func(d *HandlerDependency, c *HandlerContext) http.HandlerFunc

// InputHandler produces a http.HandlerFunc from the request dependencies and a parsed body
type InputHandler[M any] func(d *HandlerDependency, c *HandlerContext, model M) http.HandlerFunc

// RegisterHandler wraps a GetHandler with span and tenant extraction
func RegisterHandler(l logrus.FieldLogger) func(si jsonapi.ServerInformation) func(handlerName string, handler GetHandler) http.HandlerFunc {
	return func(si jsonapi.ServerInformation) func(handlerName string, handler GetHandler) http.HandlerFunc {
		return func(handlerName string, handler GetHandler) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				fl := l.WithFields(logrus.Fields{
					"originator": handlerName,
					"type":       "rest_handler",
				})
				span := opentracing.StartSpan(handlerName)
				defer span.Finish()

				ctx := parseTenant(fl, r, r.Context())
				handler(&HandlerDependency{l: fl, ctx: ctx}, &HandlerContext{si: si})(w, r)
			}
		}
	}
}

// RegisterInputHandler wraps an InputHandler with span and tenant extraction plus body parsing
func RegisterInputHandler[M any](l logrus.FieldLogger) func(si jsonapi.ServerInformation) func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
	return func(si jsonapi.ServerInformation) func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
		return func(handlerName string, handler InputHandler[M]) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				fl := l.WithFields(logrus.Fields{
					"originator": handlerName,
					"type":       "rest_handler",
				})
				span := opentracing.StartSpan(handlerName)
				defer span.Finish()

				ctx := parseTenant(fl, r, r.Context())
				d := &HandlerDependency{l: fl, ctx: ctx}
				c := &HandlerContext{si: si}
				ParseInput[M](d, c, handler)(w, r)
			}
		}
	}
}

// parseTenant populates the context with tenant information from request headers
func parseTenant(l logrus.FieldLogger, r *http.Request, ctx context.Context) context.Context {
	tenantId, err := uuid.Parse(r.Header.Get("TENANT_ID"))
	if err != nil {
		return ctx
	}
	majorVersion, _ := strconv.Atoi(r.Header.Get("MAJOR_VERSION"))
	minorVersion, _ := strconv.Atoi(r.Header.Get("MINOR_VERSION"))

	t, err := tenant.Create(tenantId, r.Header.Get("REGION"), uint16(majorVersion), uint16(minorVersion))
	if err != nil {
		l.WithError(err).Error("Unable to create tenant from request headers.")
		return ctx
	}
	return tenant.WithContext(ctx, t)
}

// ParseInput decodes the request body before invoking the handler
func ParseInput[M any](d *HandlerDependency, c *HandlerContext, next InputHandler[M]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var model M
		if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
			d.Logger().WithError(err).Error("Unable to decode request body.")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		next(d, c, model)(w, r)
	}
}

// ParseCharacterId extracts a characterId path variable
func ParseCharacterId(l logrus.FieldLogger, next func(characterId uint32) http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		characterId, err := strconv.Atoi(mux.Vars(r)["characterId"])
		if err != nil {
			l.WithError(err).Error("Unable to parse characterId from path.")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		next(uint32(characterId))(w, r)
	}
}

// ParseCardId extracts a cardId path variable
func ParseCardId(l logrus.FieldLogger, next func(cardId uint32) http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardId, err := strconv.Atoi(mux.Vars(r)["cardId"])
		if err != nil {
			l.WithError(err).Error("Unable to parse cardId from path.")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		next(uint32(cardId))(w, r)
	}
}
