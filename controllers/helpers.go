package controllers

import (
	"strconv"

	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, utils.ValidationError("Invalid %s", name)
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return utils.ValidationError("Invalid input: %s", err.Error())
	}
	return nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, utils.ValidationError("Query parameter %s must be true or false", key)
	}
	return &v, nil
}

func queryUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, utils.ValidationError("Query parameter %s must be a valid id", key)
	}
	return &id, nil
}

// queryEnum returns nil when the parameter is absent.
func queryEnum[T ~string](c *gin.Context, key string) *T {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

type statusInput[T ~string] struct {
	Status T `json:"status" binding:"required"`
}
