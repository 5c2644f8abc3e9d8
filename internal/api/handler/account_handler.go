package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/api/metrics"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// AccountHandler serves the authenticated /user/actions endpoints.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword"     form:"newPassword"`
	ConfirmPassword string `json:"conPassword"     form:"conPassword"`
}

var storeInfoKeys = []string{
	"outletname", "pin", "legal_entity", "owner", "cc_number", "contact_name",
	"outlet_add", "gst", "delevery_radius", "billing_amount_anydel", "min_amount", "reg_add",
}

// Profile returns the caller's account.
//
// @Summary      Get own profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /user/actions/profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	id, err := requesterID(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile", account)
}

// UpdateProfile replaces name, email and phone, and zip when given.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /user/actions/update [put]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	id, err := requesterID(c)
	if err != nil {
		return err
	}
	fields, err := readFields(c, "name", "email", "phone", "zip")
	if err != nil {
		return err
	}

	account, err := h.service.UpdateProfile(c.Request().Context(), id, ports.ProfileInput{
		Name:  fields.text("name"),
		Email: fields.text("email"),
		Phone: fields.text("phone"),
		Zip:   fields.str("zip"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile updated", account)
}

// UpdatePassword changes the caller's password.
//
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      passwordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /user/actions/updatepass [put]
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	id, err := requesterID(c)
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err = h.service.ChangePassword(c.Request().Context(), id, ports.PasswordChangeInput{
		Current: req.CurrentPassword,
		New:     req.NewPassword,
		Confirm: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password updated", nil)
}

// UpdatePicture replaces the caller's profile picture.
//
// @Summary      Upload profile picture
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profile_picture  formData  file  true  "Image file"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Router       /user/actions/updatepic [put]
func (h *AccountHandler) UpdatePicture(c echo.Context) error {
	id, err := requesterID(c)
	if err != nil {
		return err
	}
	img, closeImg, err := readImage(c, "profile_picture")
	if err != nil {
		return err
	}
	defer closeImg()
	if img == nil {
		return domain.NewValidationError("profile_picture", "profile_picture file is required")
	}

	account, err := h.service.UpdatePicture(c.Request().Context(), id, *img)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("profile_picture", "rejected").Inc()
		return err
	}
	metrics.ImageUploadsTotal.WithLabelValues("profile_picture", "ok").Inc()
	return respond(c, http.StatusOK, "profile picture updated", account)
}

// UpdateStoreInfo merges the given store attributes into the seller profile.
//
// @Summary      Update store info
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /user/actions/updatestoreinfo [put]
func (h *AccountHandler) UpdateStoreInfo(c echo.Context) error {
	id, err := requesterID(c)
	if err != nil {
		return err
	}
	fields, err := readFields(c, storeInfoKeys...)
	if err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	patch := domain.StoreInfoPatch{
		OutletName:          fields.str("outletname"),
		Pin:                 fields.str("pin"),
		LegalEntity:         fields.str("legal_entity"),
		Owner:               fields.str("owner"),
		CardNumber:          fields.str("cc_number"),
		ContactName:         fields.str("contact_name"),
		OutletAddress:       fields.str("outlet_add"),
		GST:                 fields.str("gst"),
		DeliveryRadius:      fields.str("delevery_radius"),
		BillingAmountAnyDel: fields.number("billing_amount_anydel", verr),
		MinAmount:           fields.number("min_amount", verr),
		RegisteredAddress:   fields.str("reg_add"),
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	account, err := h.service.UpdateStoreInfo(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "store info updated", account)
}
