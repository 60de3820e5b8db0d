package repository

import (
	"context"
	"errors"
	"time"

	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/rs/zerolog"
)

const defaultWatchPollInterval = time.Second

var ErrStreamDisabled = errors.New("requests table has no stream enabled")

// dynamoTableAPI and dynamoStreamsAPI are the narrow slices of the SDK
// clients the watcher calls; the concrete clients satisfy them.
type dynamoTableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type dynamoStreamsAPI interface {
	DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error)
}

// RequestStreamWatcher tails the requests table's DynamoDB stream and turns
// change records into full snapshots for one customer.
//
// Semantics (matching a document-store push subscription):
//   - one initial snapshot shortly after Watch returns, emitted only after
//     shard iterators exist so no contemporaneous write falls between the
//     snapshot query and the tail
//   - after any change touching the customer, the table is re-queried and
//     the complete result set is emitted; consumers never diff
//   - the channel holds at most one undelivered snapshot; a newer one
//     replaces it, so a slow consumer only observes the latest state
//   - cancelling ctx stops the tail and closes the channel
type RequestStreamWatcher struct {
	ddb          dynamoTableAPI
	streams      dynamoStreamsAPI
	repo         interfaces.IRequestRepository
	tableName    string
	pollInterval time.Duration
	log          zerolog.Logger
}

var _ interfaces.IRequestWatcher = (*RequestStreamWatcher)(nil)

func NewRequestStreamWatcher(ddb *dynamodb.Client, streams *dynamodbstreams.Client, repo interfaces.IRequestRepository, log zerolog.Logger) *RequestStreamWatcher {
	return &RequestStreamWatcher{
		ddb:          ddb,
		streams:      streams,
		repo:         repo,
		tableName:    getenvDefault("REQUESTS_TABLE", defaultRequestsTableName),
		pollInterval: defaultWatchPollInterval,
		log:          log,
	}
}

func (w *RequestStreamWatcher) Watch(ctx context.Context, customerID string) (<-chan []entities.ServiceRequest, error) {
	streamArn, err := w.streamArn(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []entities.ServiceRequest, 1)
	go w.run(ctx, customerID, streamArn, out)
	return out, nil
}

func (w *RequestStreamWatcher) streamArn(ctx context.Context) (string, error) {
	out, err := w.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(w.tableName),
	})
	if err != nil {
		return "", err
	}
	if out.Table == nil || out.Table.LatestStreamArn == nil || *out.Table.LatestStreamArn == "" {
		return "", ErrStreamDisabled
	}
	return *out.Table.LatestStreamArn, nil
}

func (w *RequestStreamWatcher) run(ctx context.Context, customerID, streamArn string, out chan []entities.ServiceRequest) {
	defer close(out)

	// Shard iterators start at LATEST, so attaching must happen before the
	// initial snapshot: once the iterators exist, any write that lands after
	// the snapshot query produces a record the tail will read.
	iterators := map[string]string{}
	finished := map[string]bool{}
	if _, err := w.refreshShards(ctx, streamArn, iterators, finished); err != nil {
		if ctx.Err() != nil {
			return
		}
		// The next tick retries; the attach counter below forces a resync
		// snapshot once the shards come up.
		w.log.Error().Err(err).Msg("initial stream shard discovery failed")
	}

	w.emitSnapshot(ctx, customerID, out)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		attached, err := w.refreshShards(ctx, streamArn, iterators, finished)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("stream shard discovery failed")
			continue
		}

		// A shard attached mid-tail starts at LATEST: whatever was written
		// between its parent closing (or a read error dropping the old
		// iterator) and this attach was never read. Resync with a fresh
		// snapshot instead of trusting that gap was empty.
		changed := attached > 0

		for shardID, iterator := range iterators {
			records, next, err := w.readShard(ctx, iterator)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.log.Error().Err(err).Str("shard_id", shardID).Msg("stream read failed")
				delete(iterators, shardID)
				finished[shardID] = false // rediscover with a fresh iterator
				continue
			}
			if next == "" {
				// Shard closed; its children show up on the next refresh.
				delete(iterators, shardID)
				finished[shardID] = true
			} else {
				iterators[shardID] = next
			}
			for _, rec := range records {
				if recordTouchesCustomer(rec, customerID) {
					changed = true
				}
			}
		}

		if changed {
			w.emitSnapshot(ctx, customerID, out)
		}
	}
}

// refreshShards attaches a LATEST iterator to every shard not yet tracked
// and reports how many it attached, so the caller can resync after any
// late attach.
func (w *RequestStreamWatcher) refreshShards(ctx context.Context, streamArn string, iterators map[string]string, finished map[string]bool) (int, error) {
	attached := 0
	var startShardID *string
	for {
		out, err := w.streams.DescribeStream(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(streamArn),
			ExclusiveStartShardId: startShardID,
		})
		if err != nil {
			return attached, err
		}
		if out.StreamDescription == nil {
			return attached, nil
		}

		for _, shard := range out.StreamDescription.Shards {
			if shard.ShardId == nil {
				continue
			}
			id := *shard.ShardId
			if _, open := iterators[id]; open || finished[id] {
				continue
			}
			iterOut, err := w.streams.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
				StreamArn:         aws.String(streamArn),
				ShardId:           shard.ShardId,
				ShardIteratorType: streamtypes.ShardIteratorTypeLatest,
			})
			if err != nil {
				return attached, err
			}
			if iterOut.ShardIterator != nil {
				iterators[id] = *iterOut.ShardIterator
				attached++
			}
		}

		if out.StreamDescription.LastEvaluatedShardId == nil {
			return attached, nil
		}
		startShardID = out.StreamDescription.LastEvaluatedShardId
	}
}

func (w *RequestStreamWatcher) readShard(ctx context.Context, iterator string) ([]streamtypes.Record, string, error) {
	out, err := w.streams.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{
		ShardIterator: aws.String(iterator),
	})
	if err != nil {
		return nil, "", err
	}
	next := ""
	if out.NextShardIterator != nil {
		next = *out.NextShardIterator
	}
	return out.Records, next, nil
}

func (w *RequestStreamWatcher) emitSnapshot(ctx context.Context, customerID string, out chan []entities.ServiceRequest) {
	snapshot, err := w.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Str("customer_id", customerID).Msg("snapshot query failed")
		}
		return
	}

	// Latest-wins delivery: drop the undelivered snapshot, if any. The
	// single run goroutine is the only sender, so the refill cannot race.
	select {
	case out <- snapshot:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- snapshot:
	case <-ctx.Done():
	}
}

func recordTouchesCustomer(rec streamtypes.Record, customerID string) bool {
	if rec.Dynamodb == nil {
		return false
	}
	for _, image := range []map[string]streamtypes.AttributeValue{rec.Dynamodb.NewImage, rec.Dynamodb.OldImage} {
		if v, ok := image["customer_id"]; ok {
			if s, ok := v.(*streamtypes.AttributeValueMemberS); ok && s.Value == customerID {
				return true
			}
		}
	}
	return false
}
