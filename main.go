package main

import (
	"os"

	"atlas-cards/access"
	cardService "atlas-cards/card"
	"atlas-cards/database"
	card "atlas-cards/kafka/consumer/card"
	"atlas-cards/ledger"
	"atlas-cards/limits"
	"atlas-cards/logger"
	"atlas-cards/maintenance"
	"atlas-cards/metadata"
	"atlas-cards/service"
	"atlas-cards/tracing"

	"github.com/Chronicle20/atlas-kafka/consumer"
	"github.com/Chronicle20/atlas-rest/server"
)

const serviceName = "atlas-cards"

type Server struct {
	baseUrl string
	prefix  string
}

func (s Server) GetBaseURL() string {
	return s.baseUrl
}

func (s Server) GetPrefix() string {
	return s.prefix
}

func GetServer() Server {
	return Server{
		baseUrl: "",
		prefix:  "/api/cds/",
	}
}

func main() {
	l := logger.CreateLogger(serviceName)
	l.Infoln("Starting main service.")

	tdm := service.GetTeardownManager()

	tc, err := tracing.InitTracer(l)(serviceName)
	if err != nil {
		l.WithError(err).Fatal("Unable to initialize tracer.")
	}

	db := database.Connect(l, database.SetMigrations(
		cardService.Migration,
		ledger.Migration,
		metadata.Migration,
		limits.Migration,
		access.Migration,
		maintenance.Migration,
	))

	// Initialize Kafka consumers
	consumerManager := consumer.GetManager()
	card.InitConsumers(l, tdm.Context(), db)(
		consumerManager.AddConsumer(l, tdm.Context(), tdm.WaitGroup()),
	)("card-service")

	server.New(l).
		WithContext(tdm.Context()).
		WithWaitGroup(tdm.WaitGroup()).
		SetBasePath(GetServer().GetPrefix()).
		AddRouteInitializer(cardService.InitializeRoutes(db)(GetServer())).
		SetPort(os.Getenv("REST_PORT")).
		Run()

	tdm.TeardownFunc(tracing.Teardown(l)(tc))

	tdm.Wait()
	l.Infoln("Service shutdown.")
}
