// controllers/reservation.go
package controllers

import (
	"net/http"

	"chiludos-backend/middlewares"
	"chiludos-backend/models"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	reservations *services.ReservationService
	resp         *utils.ErrorResponder
}

func NewReservationController(reservations *services.ReservationService, resp *utils.ErrorResponder) *ReservationController {
	return &ReservationController{reservations: reservations, resp: resp}
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	var input services.CreateReservationInput
	if err := bindJSON(c, &input); err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservation, err := rc.reservations.Create(c.Request.Context(), userID, input)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Reservation created", reservation)
}

// GetReservations supports ?status=, ?date=YYYY-MM-DD and ?tableId=
func (rc *ReservationController) GetReservations(c *gin.Context) {
	filter := services.ReservationFilter{Status: queryEnum[models.ReservationStatus](c, "status")}
	if raw := c.Query("date"); raw != "" {
		filter.Date = &raw
	}

	tableID, err := queryUUID(c, "tableId")
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	filter.TableID = tableID

	reservations, err := rc.reservations.List(c.Request.Context(), filter)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", reservations)
}

func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservations, err := rc.reservations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservation, err := rc.reservations.Get(c.Request.Context(), id)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", reservation)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservation, err := rc.reservations.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Reservation cancelled", reservation)
}

func (rc *ReservationController) CompleteReservation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservation, err := rc.reservations.Complete(c.Request.Context(), id)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Reservation completed", reservation)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}

	var input statusInput[models.ReservationStatus]
	if err := bindJSON(c, &input); err != nil {
		rc.resp.Respond(c, err)
		return
	}

	reservation, err := rc.reservations.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		rc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Reservation status updated", reservation)
}
