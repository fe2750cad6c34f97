package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/zoobzio/clockz"

	"github.com/brdiniz/blower-maintenance/internal/alerts"
	"github.com/brdiniz/blower-maintenance/internal/auth"
	"github.com/brdiniz/blower-maintenance/internal/db"
	"github.com/brdiniz/blower-maintenance/internal/handlers"
	"github.com/brdiniz/blower-maintenance/internal/importer"
	"github.com/brdiniz/blower-maintenance/internal/middleware"
	"github.com/brdiniz/blower-maintenance/internal/schedule"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "blowertrack"
	}
	database := client.Database(dbName)
	equipmentCol := &db.MongoEquipmentCollection{Collection: database.Collection("equipment")}
	overrideCol := &db.MongoOverrideCollection{Collection: database.Collection("overrides")}
	userCol := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	var publisher alerts.Publisher
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		topic := os.Getenv("MQTT_ALERT_TOPIC")
		if topic == "" {
			topic = "maintenance/alerts"
		}
		p, err := alerts.NewMQTTPublisher(broker, "blowertrack-api", topic)
		if err != nil {
			log.Warnf("MQTT disabled: %v", err)
		} else {
			publisher = p
		}
	}

	catalog := schedule.DefaultCatalog()
	clock := clockz.RealClock
	parser := importer.NewParser(catalog, clock)

	authHandler := handlers.NewAuthHandler(authService, userCol)
	equipmentHandler := handlers.NewEquipmentHandler(catalog, clock, equipmentCol, overrideCol, publisher)
	importHandler := handlers.NewImportHandler(parser, clock, equipmentCol, overrideCol)
	billingHandler := handlers.NewBillingHandler()

	authMW := middleware.NewAuthMiddleware(authService)
	rateMW := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.Handle("GET /api/auth/profile", authMW.Authenticate(http.HandlerFunc(authHandler.GetProfile)))

	mux.Handle("GET /api/equipment", requirePermission(authMW, "view_equipment", equipmentHandler.List))
	mux.Handle("GET /api/equipment/{tag}", requirePermission(authMW, "view_equipment", equipmentHandler.Get))
	mux.Handle("POST /api/equipment", requirePermission(authMW, "manage_equipment", equipmentHandler.Create))
	mux.Handle("DELETE /api/equipment/{tag}", requirePermission(authMW, "delete_equipment", equipmentHandler.Delete))
	mux.Handle("PUT /api/equipment/{tag}/services/{typeID}", requirePermission(authMW, "edit_dates", equipmentHandler.UpdateServiceDates))
	mux.Handle("POST /api/equipment/{tag}/services/{typeID}/complete", requirePermission(authMW, "complete_service", equipmentHandler.Complete))

	mux.Handle("POST /api/import", requirePermission(authMW, "import_fleet", importHandler.Import))
	mux.Handle("GET /api/export", requirePermission(authMW, "view_equipment", importHandler.Export))

	mux.Handle("GET /api/billing/plan", requirePermission(authMW, "view_equipment", billingHandler.Plan))
	mux.Handle("POST /api/billing/checkout", requirePermission(authMW, "manage_users", billingHandler.Checkout))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateMW.RateLimit(300, 60)(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("HTTP server listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

// requirePermission chains JWT validation and a permission check in front
// of a handler.
func requirePermission(m *middleware.AuthMiddleware, action string, h http.HandlerFunc) http.Handler {
	return m.Authenticate(m.RequirePermission(action)(h))
}
