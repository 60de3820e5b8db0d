package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickfix/internal/domain/entities"
	"quickfix/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultRequestsTableName = "requests"
	requestsCustomerIDIndex  = "customer_id-index"
)

type garageReplyItem struct {
	ProblemFound     string `dynamodbav:"problem_found"`
	Cost             string `dynamodbav:"cost,omitempty"`
	QuotationAmount  string `dynamodbav:"quotation_amount,omitempty"`
	EstimationAmount string `dynamodbav:"estimation_amount,omitempty"`
	Date             string `dynamodbav:"date,omitempty"`
	Time             string `dynamodbav:"time,omitempty"`
}

type requestItem struct {
	ID           string           `dynamodbav:"id"`
	CustomerID   string           `dynamodbav:"customer_id"`
	CustomerName string           `dynamodbav:"customer_name"`
	Phone        string           `dynamodbav:"phone"`
	Vehicle      string           `dynamodbav:"vehicle"`
	ProblemText  string           `dynamodbav:"problem_text"`
	Images       []string         `dynamodbav:"images,omitempty"`
	Status       string           `dynamodbav:"status"`
	GarageReply  *garageReplyItem `dynamodbav:"garage_reply,omitempty"`
	CreatedAt    string           `dynamodbav:"created_at"`
}

// RequestDynamoRepository persists ServiceRequest entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)
//   - Streams enabled (NEW_AND_OLD_IMAGES) for the request watcher
//
// The garage back-office writes garage_reply and the pending->quoted status
// through its own tooling; this repository only reads those fields.
type RequestDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IRequestRepository = (*RequestDynamoRepository)(nil)

func NewRequestDynamoRepository(ddb *dynamodb.Client) *RequestDynamoRepository {
	return &RequestDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("REQUESTS_TABLE", defaultRequestsTableName),
	}
}

func (r *RequestDynamoRepository) Insert(ctx context.Context, req entities.ServiceRequest) (entities.ServiceRequest, error) {
	it := toRequestItem(req)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.ServiceRequest{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	return req, nil
}

func (r *RequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceRequest, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if len(out.Item) == 0 {
		return entities.ServiceRequest{}, nil
	}

	var it requestItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ServiceRequest{}, err
	}
	return fromRequestItem(it)
}

// ListByCustomerID queries the owner GSI. The index guarantees no order;
// callers sort by creation time.
func (r *RequestDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.ServiceRequest, error) {
	var requests []entities.ServiceRequest
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(requestsCustomerIDIndex),
			KeyConditionExpression: aws.String("customer_id = :cid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cid": &types.AttributeValueMemberS{Value: customerID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range out.Items {
			var it requestItem
			if err := attributevalue.UnmarshalMap(item, &it); err != nil {
				return nil, err
			}
			r, err := fromRequestItem(it)
			if err != nil {
				return nil, err
			}
			requests = append(requests, r)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return requests, nil
}

// UpdateStatus issues the single-field status update. A missing record
// surfaces as a zero-value request, matching the read path.
func (r *RequestDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.RequestStatus) (entities.ServiceRequest, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#status": "status",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.ServiceRequest{}, nil
		}
		return entities.ServiceRequest{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.ServiceRequest{}, nil
	}

	var it requestItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceRequest{}, err
	}
	return fromRequestItem(it)
}

func toRequestItem(r entities.ServiceRequest) requestItem {
	it := requestItem{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Vehicle:      r.Vehicle,
		ProblemText:  r.ProblemText,
		Images:       r.Images,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if r.GarageReply != nil {
		it.GarageReply = &garageReplyItem{
			ProblemFound:     r.GarageReply.ProblemFound,
			Cost:             r.GarageReply.Cost,
			QuotationAmount:  r.GarageReply.QuotationAmount,
			EstimationAmount: r.GarageReply.EstimationAmount,
			Date:             r.GarageReply.Date,
			Time:             r.GarageReply.Time,
		}
	}
	return it
}

// fromRequestItem rejects a malformed created_at instead of mapping it to
// the zero time, which would silently sink the record to the bottom of
// every newest-first sort.
func fromRequestItem(it requestItem) (entities.ServiceRequest, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return entities.ServiceRequest{}, fmt.Errorf("request %s has malformed created_at %q: %w", it.ID, it.CreatedAt, err)
	}
	r := entities.ServiceRequest{
		ID:           it.ID,
		CustomerID:   it.CustomerID,
		CustomerName: it.CustomerName,
		Phone:        it.Phone,
		Vehicle:      it.Vehicle,
		ProblemText:  it.ProblemText,
		Images:       it.Images,
		Status:       entities.RequestStatus(it.Status),
		CreatedAt:    createdAt,
	}
	if it.GarageReply != nil {
		r.GarageReply = &entities.GarageReply{
			ProblemFound:     it.GarageReply.ProblemFound,
			Cost:             it.GarageReply.Cost,
			QuotationAmount:  it.GarageReply.QuotationAmount,
			EstimationAmount: it.GarageReply.EstimationAmount,
			Date:             it.GarageReply.Date,
			Time:             it.GarageReply.Time,
		}
	}
	return r, nil
}
