package ds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DynamoTestSink starts DynamoDB Local in a container and returns a sink
// bound to a fresh table, along with a func that terminates the container.
func DynamoTestSink(ctx context.Context, key StatusKey) (*StatusSink, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "amazon/dynamodb-local",
				ExposedPorts: []string{"8000/tcp"},
				WaitingFor:   wait.ForListeningPort("8000"),
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	terminate := func() {
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}

	host, err := db.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "8000")
	if err != nil {
		terminate()
		return nil, nil, err
	}

	cfg, err := localConfig(ctx, fmt.Sprintf("http://%s:%s", host, port.Port()))
	if err != nil {
		terminate()
		return nil, nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	const table = "test-indicator-status"
	if err := createTable(ctx, client, table); err != nil {
		terminate()
		return nil, nil, err
	}

	return NewStatusSink(client, table, key), terminate, nil
}
