package controllers

import (
	"errors"
	"net/http"

	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/bind"
	"github.com/pecaforte/inventory/pkg/response"
)

type AuthController struct {
	authorizer *services.Authorizer
}

func NewAuthController(az *services.Authorizer) *AuthController {
	return &AuthController{authorizer: az}
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Login exchanges the operator password for a bearer token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.authorizer.Login(body.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		respondError(w, err)
		return
	}

	response.Success(w, map[string]string{"token": token})
}
