package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/config"
	"github.com/clinibook/clinic-api/internal/middleware"
)

// Handler bundles what every endpoint needs: the database for plain reads,
// the booking service for the stateful workflows, and the app logger.
type Handler struct {
	DB      *mongo.Database
	Booking *booking.Service
	Cfg     *config.Config
	Log     zerolog.Logger
}

func NewHandler(db *mongo.Database, svc *booking.Service, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		DB:      db,
		Booking: svc,
		Cfg:     cfg,
		Log:     log,
	}
}

// All responses use the {success, message, ...} envelope the front ends
// already consume.

func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func created(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusCreated, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failErr maps workflow errors onto HTTP statuses by failure class.
func (h *Handler) failErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		fail(c, status, "Something went wrong. Please try again later")
		return
	}
	fail(c, status, err.Error())
}

// userID reads the patient id set by the auth middleware.
func userID(c *gin.Context) (primitive.ObjectID, bool) {
	return ctxObjectID(c, middleware.CtxUserID)
}

// docID reads the doctor id set by the auth middleware.
func docID(c *gin.Context) (primitive.ObjectID, bool) {
	return ctxObjectID(c, middleware.CtxDocID)
}

func ctxObjectID(c *gin.Context, key string) (primitive.ObjectID, bool) {
	hex := c.GetString(key)
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid token subject")
		return primitive.NilObjectID, false
	}
	return id, true
}

// paramObjectID parses an ObjectID path parameter.
func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
