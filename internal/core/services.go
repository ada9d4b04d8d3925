package core

import (
	"time"

	"github.com/edvin/cdcadmin/internal/store"
)

type Services struct {
	Auth       *AuthService
	Connection *ConnectionService
	Pipeline   *PipelineService
	User       *UserService
	Dashboard  *DashboardService
	Store      *store.Store
}

// NewServices wires every service to the same backend and store. loc sets
// the day boundaries of dashboard charts.
func NewServices(backend Backend, st *store.Store, loc *time.Location) *Services {
	connections := NewConnectionService(backend, st)
	return &Services{
		Auth:       NewAuthService(backend),
		Connection: connections,
		Pipeline:   NewPipelineService(backend, st, connections),
		User:       NewUserService(backend, st),
		Dashboard:  NewDashboardService(backend, st, loc),
		Store:      st,
	}
}
