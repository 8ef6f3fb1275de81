package main

import (
	availabilityhandler "roombook/internal/availability/handler"
	availabilityservice "roombook/internal/availability/service"
	"roombook/internal/bookings/events"
	bookinghandler "roombook/internal/bookings/handler"
	bookingrepository "roombook/internal/bookings/repository"
	bookingservice "roombook/internal/bookings/service"
	bookingvalidator "roombook/internal/bookings/validator"
	employeehandler "roombook/internal/employees/handler"
	employeerepository "roombook/internal/employees/repository"
	employeeservice "roombook/internal/employees/service"
	employeevalidator "roombook/internal/employees/validator"
	roomhandler "roombook/internal/rooms/handler"
	roomrepository "roombook/internal/rooms/repository"
	roomservice "roombook/internal/rooms/service"
	roomvalidator "roombook/internal/rooms/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/contracts"
)

const ServiceName = "roombook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting roombook service")

	publisher := events.NewPublisher(cfg)
	defer publisher.Close()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher *events.Publisher) []contracts.Handler {
	roomRepo := roomrepository.NewMongoRoomRepository(cfg)
	roomService := roomservice.NewRoomService(
		roomRepo,
		roomvalidator.NewRoomValidator(cfg.Log),
		cfg,
	)

	employeeRepo := employeerepository.NewMongoEmployeeRepository(cfg)
	employeeService := employeeservice.NewEmployeeService(
		employeeRepo,
		employeevalidator.NewEmployeeValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepository.NewRoomLockRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	availabilityService := availabilityservice.NewAvailabilityService(
		roomRepo,
		bookingService,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		roomhandler.NewRoomHandler(roomService, cfg.Log),
		employeehandler.NewEmployeeHandler(employeeService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
	}
}
