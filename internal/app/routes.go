package app

import (
	"github.com/centavo/centavo/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budget template
	r.HandleFunc("/api/template", deps.TemplateHandler.GetActive).Methods("GET")
	r.HandleFunc("/api/template", deps.TemplateHandler.Save).Methods("POST")
	r.HandleFunc("/api/template/versions", deps.TemplateHandler.ListVersions).Methods("GET")

	// Monthly budget
	r.HandleFunc("/api/budget/{month}", deps.SnapshotHandler.GetForMonth).Methods("GET")
	r.HandleFunc("/api/budget/{month}/category/{name}", deps.SnapshotHandler.AdjustCategoryLimit).Methods("PUT")
	r.HandleFunc("/api/budget/{month}/lock", deps.SnapshotHandler.SetLocked).Methods("PUT")

	// Scheduled adjustments
	r.HandleFunc("/api/adjustment", deps.AdjustmentHandler.Schedule).Methods("POST")
	r.HandleFunc("/api/adjustment", deps.AdjustmentHandler.ListPending).Methods("GET")
	r.HandleFunc("/api/adjustment/{id}", deps.AdjustmentHandler.Cancel).Methods("DELETE")

	// Comparison
	r.HandleFunc("/api/comparison/{month}", deps.ComparisonHandler.GetForMonth).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Record).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.ListByMonth).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/transaction/summary", deps.TransactionHandler.SummaryByMonth).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
