package http

import (
	"fmt"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	httpmiddleware "github.com/canopyhq/canopy/pkg/middleware/http"
	"github.com/canopyhq/canopy/pkg/server/commands"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/server/health"
)

type handlers struct {
	svc                Service
	healthCheckTimeout time.Duration
}

func (h *handlers) health(c *gin.Context) {
	checker := health.Checker{TargetService: h.svc, Timeout: h.healthCheckTimeout}

	status, err := checker.Check(c.Request.Context())
	if err != nil {
		_ = c.Error(serverErrors.HandleError("", err))
	}

	code := nethttp.StatusOK
	if status != health.Serving {
		code = nethttp.StatusServiceUnavailable
	}
	c.JSON(code, healthResponse{Status: string(status)})
}

func (h *handlers) login(c *gin.Context) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, bindingError(err))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, newAuthResponse(res))
}

func (h *handlers) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, bindingError(err))
		return
	}

	res, err := h.svc.Register(c.Request.Context(), &commands.RegisterRequest{
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, newAuthResponse(res))
}

func (h *handlers) listNodes(c *gin.Context) {
	nodes, err := h.svc.ListNodes(c.Request.Context())
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, newNodeListResponse(nodes))
}

func (h *handlers) getNode(c *gin.Context) {
	id, err := nodeID(c)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	node, err := h.svc.GetNode(c.Request.Context(), id)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, newNodeResponse(node))
}

func (h *handlers) createNode(c *gin.Context) {
	var body nodeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, bindingError(err))
		return
	}

	node, err := h.svc.CreateNode(c.Request.Context(), &commands.CreateNodeRequest{
		Name:        body.Name,
		Description: body.Description,
		ParentID:    body.ParentID,
	})
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/nodes/%d", node.ID))
	c.JSON(nethttp.StatusCreated, newNodeResponse(node))
}

func (h *handlers) updateNode(c *gin.Context) {
	id, err := nodeID(c)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	var body nodeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, bindingError(err))
		return
	}

	node, err := h.svc.UpdateNode(c.Request.Context(), &commands.UpdateNodeRequest{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		ParentID:    body.ParentID,
	})
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, newNodeResponse(node))
}

func (h *handlers) deleteNode(c *gin.Context) {
	id, err := nodeID(c)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	if err := h.svc.DeleteNode(c.Request.Context(), id); err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}

func (h *handlers) getTree(c *gin.Context) {
	rootID, err := rootIDParam(c)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	tree, err := h.svc.GetTree(c.Request.Context(), rootID)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, tree)
}

func (h *handlers) exportTree(c *gin.Context) {
	rootID, err := rootIDParam(c)
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	exported, err := h.svc.ExportTree(c.Request.Context(), rootID, c.Query("format"))
	if err != nil {
		httpmiddleware.CustomHTTPErrorHandler(c, err)
		return
	}

	c.Data(nethttp.StatusOK, exported.ContentType, exported.Data)
}

func nodeID(c *gin.Context) (int64, error) {
	return parseID(c.Param("id"))
}

// rootIDParam returns nil when the rootId query parameter is absent or empty.
func rootIDParam(c *gin.Context) (*int64, error) {
	raw := c.Query("rootId")
	if raw == "" {
		return nil, nil
	}

	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, serverErrors.ValidationError(fmt.Errorf("invalid node id '%s'", raw))
	}
	return id, nil
}
