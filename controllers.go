package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// getUserIDFromContext expects AuthMiddleware to set "user_id" (uint) in context.
// If not present -> unauthorized.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	uid, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := uid.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

// serviceError maps the service error kinds onto status codes.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		jsonError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConflict):
		jsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation):
		jsonError(c, http.StatusBadRequest, err.Error())
	default:
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
	}
}

// -----------------------------
// Events
// -----------------------------

func CreateEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	event, err := CreateEvent(DB, userID, in)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func CreateEventsBatchHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var inputs []EventInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	events, err := CreateEventsBatch(DB, userID, inputs)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, events)
}

func ListEventsHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	events, err := ListEvents(DB, userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func GetEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	event, err := GetEvent(DB, userID, eventID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func UpdateEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var patch EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	event, err := UpdateEvent(DB, userID, eventID, patch)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func DeleteEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := DeleteEvent(DB, userID, eventID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// -----------------------------
// Permissions
// -----------------------------

func SharePermissionHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var grants []PermissionGrant
	if err := c.ShouldBindJSON(&grants); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	perms, err := SharePermission(DB, userID, eventID, grants)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func ListPermissionsHandler(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	perms, err := ListPermissions(DB, eventID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

type PermissionUpdateRequest struct {
	Role string `json:"role" binding:"required"`
}

func UpdatePermissionHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	targetUserID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}

	var body PermissionUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	perm, err := UpdatePermission(DB, userID, eventID, targetUserID, body.Role)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

func DeletePermissionHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	targetUserID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}

	if err := RemovePermission(DB, userID, eventID, targetUserID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permission deleted"})
}

// -----------------------------
// Versions
// -----------------------------

func GetVersionHandler(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	versionNumber, ok := intParam(c, "version")
	if !ok {
		return
	}

	version, err := GetEventVersion(DB, eventID, versionNumber)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func RollbackEventHandler(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	versionNumber, ok := intParam(c, "version")
	if !ok {
		return
	}

	event, err := RollbackEvent(DB, eventID, versionNumber)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func GetChangelogHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	versions, err := GetChangelog(DB, userID, eventID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func DiffVersionsHandler(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	v1, ok := intParam(c, "version1")
	if !ok {
		return
	}
	v2, ok := intParam(c, "version2")
	if !ok {
		return
	}

	diff, err := DiffVersions(DB, eventID, v1, v2)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"diff": diff})
}

// -----------------------------
// Export
// -----------------------------

func ExportEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	event, err := GetEvent(DB, userID, eventID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, "text/calendar", []byte(EventToICS(event)))
}
