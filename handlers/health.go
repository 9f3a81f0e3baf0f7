package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

// Health reports liveness and whether the database answers a ping.
func Health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			middleware.WriteError(w, r, apierr.New(http.StatusServiceUnavailable, "unavailable", "database unreachable", err))
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
