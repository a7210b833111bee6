package card

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"atlas-cards/ledger"
	"atlas-cards/limits"
	"atlas-cards/metadata"
	"atlas-cards/rest"

	"github.com/Chronicle20/atlas-rest/server"
	"github.com/gorilla/mux"
	"github.com/jtumidanski/api2go/jsonapi"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InitializeRoutes initializes card-related REST routes
func InitializeRoutes(db *gorm.DB) func(serverInfo jsonapi.ServerInformation) func(router *mux.Router, logger logrus.FieldLogger) {
	return func(serverInfo jsonapi.ServerInformation) func(router *mux.Router, logger logrus.FieldLogger) {
		return func(router *mux.Router, logger logrus.FieldLogger) {
			// registered before the parameterized card route so "limits" is
			// never read as a card identifier
			router.HandleFunc("/cards/limits",
				rest.RegisterHandler(logger)(serverInfo)("get_card_limits", getLimitsHandler(db))).
				Methods(http.MethodGet)

			router.HandleFunc("/cards/{cardId}",
				rest.RegisterHandler(logger)(serverInfo)("get_card", getCardHandler(db))).
				Methods(http.MethodGet)

			router.HandleFunc("/characters/{characterId}/cards",
				rest.RegisterHandler(logger)(serverInfo)("get_character_cards", getCharacterCardsHandler(db))).
				Methods(http.MethodGet)

			router.HandleFunc("/characters/{characterId}/cards/uses",
				rest.RegisterHandler(logger)(serverInfo)("get_character_card_uses", getCharacterUsesHandler(db))).
				Methods(http.MethodGet)

			router.HandleFunc("/characters/{characterId}/cards/usability",
				rest.RegisterHandler(logger)(serverInfo)("get_character_card_usability", getCharacterUsabilityHandler(db))).
				Methods(http.MethodGet)
		}
	}
}

// getCardHandler returns a card with its resolved metadata URI
func getCardHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseCardId(d.Logger(), func(cardId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				processor := NewProcessor(d.Logger(), d.Context(), db)
				m, err := processor.GetById(cardId)()
				if err != nil {
					if errors.Is(err, ErrNotExists) {
						writeErrorResponse(w, http.StatusNotFound, "Card does not exist")
						return
					}
					writeErrorResponse(w, http.StatusInternalServerError, err.Error())
					return
				}

				ownerId, err := ledger.NewProcessor(d.Logger(), d.Context(), db).OwnerOf(cardId)
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, err.Error())
					return
				}

				uri, err := metadata.NewProcessor(d.Logger(), d.Context(), db).ResolveForCard(cardId, m.Level())
				if err != nil {
					d.Logger().WithError(err).Warn("Failed to resolve card metadata URI")
				}

				restCard, err := Transform(m, ownerId, uri)
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform card data")
					return
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestCard](d.Logger())(w)(c.ServerInformation())(queryParams)(restCard)
			}
		})
	}
}

// getCharacterCardsHandler returns the cards held by a character in
// enumeration order
func getCharacterCardsHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseCharacterId(d.Logger(), func(characterId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				processor := NewProcessor(d.Logger(), d.Context(), db)
				models, err := processor.GetByOwner(characterId)()
				if err != nil {
					writeErrorResponse(w, http.StatusInternalServerError, err.Error())
					return
				}

				mp := metadata.NewProcessor(d.Logger(), d.Context(), db)
				restCards := make([]RestCard, 0, len(models))
				for _, m := range models {
					uri, err := mp.ResolveForCard(m.Id(), m.Level())
					if err != nil {
						d.Logger().WithError(err).Warn("Failed to resolve card metadata URI")
					}
					rc, err := Transform(m, characterId, uri)
					if err != nil {
						writeErrorResponse(w, http.StatusInternalServerError, "Failed to transform card data")
						return
					}
					restCards = append(restCards, rc)
				}

				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[[]RestCard](d.Logger())(w)(c.ServerInformation())(queryParams)(restCards)
			}
		})
	}
}

// getCharacterUsesHandler returns the summed use count across a character's cards
func getCharacterUsesHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseCharacterId(d.Logger(), func(characterId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				processor := NewProcessor(d.Logger(), d.Context(), db)
				total, err := processor.TotalUsesOf(characterId)()
				if err != nil {
					if errors.Is(err, ErrNotExists) {
						writeErrorResponse(w, http.StatusNotFound, "Character holds no cards")
						return
					}
					writeErrorResponse(w, http.StatusInternalServerError, err.Error())
					return
				}

				result := RestOwnerUses{CharacterId: characterId, TotalUses: total}
				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestOwnerUses](d.Logger())(w)(c.ServerInformation())(queryParams)(result)
			}
		})
	}
}

// getCharacterUsabilityHandler reports whether any card of a character can
// accept the requested use count
func getCharacterUsabilityHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return rest.ParseCharacterId(d.Logger(), func(characterId uint32) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				count := uint64(1)
				if raw := r.URL.Query().Get("count"); raw != "" {
					parsed, err := strconv.ParseUint(raw, 10, 64)
					if err != nil {
						writeErrorResponse(w, http.StatusBadRequest, "Invalid count parameter")
						return
					}
					count = parsed
				}

				processor := NewProcessor(d.Logger(), d.Context(), db)
				usable, err := processor.CanUseFrom(characterId, count)()
				if err != nil {
					if errors.Is(err, ErrZeroUseCount) {
						writeErrorResponse(w, http.StatusBadRequest, "Use count must be greater than zero")
						return
					}
					writeErrorResponse(w, http.StatusInternalServerError, err.Error())
					return
				}

				result := RestUsability{CharacterId: characterId, Count: count, Usable: usable}
				query := r.URL.Query()
				queryParams := jsonapi.ParseQueryFields(&query)
				server.MarshalResponse[RestUsability](d.Logger())(w)(c.ServerInformation())(queryParams)(result)
			}
		})
	}
}

// getLimitsHandler returns the tenant's effective limits
func getLimitsHandler(db *gorm.DB) rest.GetHandler {
	return func(d *rest.HandlerDependency, c *rest.HandlerContext) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			l, err := limits.NewProcessor(d.Logger(), d.Context(), db).Get()
			if err != nil {
				writeErrorResponse(w, http.StatusInternalServerError, err.Error())
				return
			}

			result := RestLimits{MaxUses: l.MaxUses(), MaxOwns: l.MaxOwns()}
			query := r.URL.Query()
			queryParams := jsonapi.ParseQueryFields(&query)
			server.MarshalResponse[RestLimits](d.Logger())(w)(c.ServerInformation())(queryParams)(result)
		}
	}
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"status": statusCode,
			"title":  http.StatusText(statusCode),
			"detail": message,
		},
	}

	_ = json.NewEncoder(w).Encode(errorResponse)
}
