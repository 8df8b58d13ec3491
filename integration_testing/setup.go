package integration_testing

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/compassremodeling/cms/internal"
	"github.com/compassremodeling/cms/internal/config"
	"github.com/compassremodeling/cms/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9000
	serverHost = "localhost"

	testDBName        = "compass_cms_db"
	testSecretKey     = "integration-secret"
	testAdminEmail    = "admin@compassremodeling.com"
	testAdminPassword = "Compass2025!"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB         *pgxpool.Pool
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) *Suite {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	pgPort, err := suite.postgresSetup(ctx)
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := getTestConfig(pgPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			SecretKey:               testSecretKey,
			DefaultAdminEmail:       testAdminEmail,
			DefaultAdminPassword:    testAdminPassword,
			DefaultAdminName:        "Compass Admin",
			VersionInfo:             "test-version-info",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)

	return suite
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	// the server closes the pool it owns; this one is suite-owned
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(postgresPort string) *config.Config {
	return &config.Config{
		Host:                  serverHost,
		Port:                  serverPort,
		LogToStdout:           true,
		LogLevel:              "trace",
		PostgresHost:          "localhost",
		PostgresPort:          postgresPort,
		PostgresDBName:        testDBName,
		PrometheusMetricsHost: "localhost",
		PrometheusMetricsPort: "0",
	}
}

func (s *Suite) postgresSetup(ctx context.Context) (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_HOST_AUTH_METHOD=trust",
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")

	// the container needs a moment before accepting connections
	if err := s.dockerPool.Retry(func() error {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost: "localhost",
			DBPort: pgPort,
			DBName: testDBName,
		})
		if err != nil {
			return err
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return err
		}
		s.DB = dbPool
		return nil
	}); err != nil {
		return "", fmt.Errorf("connect to postgres: %s", err)
	}

	initSQL, err := os.ReadFile("../scripts/create_tables.sql")
	if err != nil {
		return "", fmt.Errorf("read create tables script: %s", err)
	}
	if _, err := s.DB.Exec(ctx, string(initSQL)); err != nil {
		return "", fmt.Errorf("run create tables script: %s", err)
	}

	return pgPort, nil
}
