package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/utils"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates a patient account and returns a session token.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Missing details")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fail(c, http.StatusBadRequest, "Please enter a valid email")
		return
	}
	if len(req.Password) < 8 {
		fail(c, http.StatusBadRequest, "Please enter a strong password")
		return
	}

	users := h.DB.Collection("users")
	count, err := users.CountDocuments(c.Request.Context(), bson.M{"email": req.Email})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if count > 0 {
		fail(c, http.StatusConflict, "An account with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Date:     time.Now(),
	}
	if _, err := users.InsertOne(c.Request.Context(), user); err != nil {
		h.failErr(c, err)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), "user")
	if err != nil {
		h.failErr(c, err)
		return
	}
	created(c, gin.H{"token": token})
}

// LoginUser authenticates a patient by email and password.
func (h *Handler) LoginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), "user")
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"token": token})
}

// LoginDoctor authenticates a doctor by email and password.
func (h *Handler) LoginDoctor(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var doc models.Doctor
	err := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, doc.Password) {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(doc.ID.Hex(), "doctor")
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"token": token})
}

// LoginAdmin checks the configured admin credentials and issues an admin token.
func (h *Handler) LoginAdmin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email != h.Cfg.AdminEmail || req.Password != h.Cfg.AdminPassword {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateAdminJWT(req.Email)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"token": token})
}
