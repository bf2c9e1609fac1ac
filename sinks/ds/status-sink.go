package ds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/weegigs/wee-indicator-go/wi"
)

type StatusTableName string

func (name StatusTableName) String() string {
	return string(name)
}

// StatusKey is the partition key the indicator status is stored under, one
// per reporting process.
type StatusKey string

func (key StatusKey) String() string {
	return string(key)
}

const statusSortKey = "indicator-status"

// StatusSink keeps the most recent indicator state in a single item. Writes
// carrying an older revision than the stored one are discarded, so states
// may arrive out of order without rolling the record back.
type StatusSink struct {
	db    *dynamodb.Client
	table string
	key   string
}

func NewStatusSink(db *dynamodb.Client, table StatusTableName, key StatusKey) *StatusSink {
	return &StatusSink{db: db, table: string(table), key: string(key)}
}

func (s *StatusSink) TypeName() string {
	return "ds:status-sink"
}

type statusRecord struct {
	PartitionKey string       `dynamodbav:"pk"`
	SortKey      string       `dynamodbav:"sk"`
	Revision     wi.Revision  `dynamodbav:"revision"`
	Count        int          `dynamodbav:"count"`
	Visible      bool         `dynamodbav:"visible"`
	Requested    bool         `dynamodbav:"requested"`
	Timestamp    wi.Timestamp `dynamodbav:"timestamp"`
}

func (r *statusRecord) State() wi.State {
	return wi.State{
		Revision:  r.Revision,
		Count:     r.Count,
		Visible:   r.Visible,
		Requested: r.Requested,
		Timestamp: r.Timestamp,
	}
}

func (s *StatusSink) recordFor(state wi.State) *statusRecord {
	return &statusRecord{
		PartitionKey: s.key,
		SortKey:      statusSortKey,
		Revision:     state.Revision,
		Count:        state.Count,
		Visible:      state.Visible,
		Requested:    state.Requested,
		Timestamp:    state.Timestamp,
	}
}

func newerCondition(revision wi.Revision) expression.ConditionBuilder {
	return expression.Name("revision").LessThan(expression.Value(revision)).Or(
		expression.AttributeNotExists(expression.Name("revision")),
	)
}

func (s *StatusSink) Apply(ctx context.Context, state wi.State) error {
	item, err := attributevalue.MarshalMap(s.recordFor(state))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal indicator status")
	}

	condition, err := expression.NewBuilder().WithCondition(newerCondition(state.Revision)).Build()
	if err != nil {
		return err
	}

	err = retry.Do(
		func() error {
			_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
				TableName:                 aws.String(s.table),
				Item:                      item,
				ConditionExpression:       condition.Condition(),
				ExpressionAttributeNames:  condition.Names(),
				ExpressionAttributeValues: condition.Values(),
			})
			return err
		},
		retry.RetryIf(isThrottled),
		retry.Attempts(4),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)

	if isStale(err) {
		return nil
	}

	return pkgerrors.Wrap(err, "failed to write indicator status")
}

// Load returns the stored state, or the initial state when nothing has been
// written under the sink's key.
func (s *StatusSink) Load(ctx context.Context) (wi.State, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"pk": s.key, "sk": statusSortKey})
	if err != nil {
		return wi.State{}, err
	}

	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return wi.State{}, pkgerrors.Wrap(err, "failed to read indicator status")
	}

	if len(out.Item) == 0 {
		return wi.InitialState(), nil
	}

	var record statusRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return wi.State{}, pkgerrors.Wrap(err, "failed to unmarshal indicator status")
	}

	return record.State(), nil
}

func isStale(err error) bool {
	var failed *types.ConditionalCheckFailedException
	return errors.As(err, &failed)
}

func isThrottled(err error) bool {
	var api smithy.APIError
	if !errors.As(err, &api) {
		return false
	}

	switch api.ErrorCode() {
	case "ThrottlingException", "ProvisionedThroughputExceededException", "RequestLimitExceeded":
		return true
	default:
		return false
	}
}
