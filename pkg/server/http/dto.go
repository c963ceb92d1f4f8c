package http

import (
	"time"

	"github.com/canopyhq/canopy/pkg/server/commands"
	"github.com/canopyhq/canopy/pkg/storage"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required,notblank,max=50"`
	Password string `json:"password" binding:"required,notblank,maxbytes=72"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required,notblank,max=50"`
	Password string `json:"password" binding:"required,notblank,maxbytes=72"`
	Role     string `json:"role"`
}

// nodeRequest is the body of both POST /nodes and PUT /nodes/{id}. On update an absent
// parentId makes the node a root.
type nodeRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ParentID    *int64  `json:"parentId" binding:"omitempty,gt=0"`
}

type nodeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ParentID    *int64    `json:"parentId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newNodeResponse(n *storage.Node) nodeResponse {
	return nodeResponse{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		ParentID:    n.ParentID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func newNodeListResponse(nodes []*storage.Node) []nodeResponse {
	res := make([]nodeResponse, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, newNodeResponse(n))
	}
	return res
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func newAuthResponse(r *commands.AuthResult) authResponse {
	return authResponse{
		Token:    r.Token,
		Username: r.Username,
		Role:     string(r.Role),
	}
}

type healthResponse struct {
	Status string `json:"status"`
}
