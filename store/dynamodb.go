package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/google/uuid"

	"github.com/blogware/posts-contract-tests/model"
)

const (
	dynamoTableName         = "posts-contract-tests"
	dynamoPartitionKey      = "id"
	dynamoDocumentAttribute = "item"
)

// DynamoDBStore keeps each post as a table item whose partition key is the
// post id and whose "item" attribute is the JSON document. The table is
// created on demand, which makes local runs against dynamodb-local trivial.
type DynamoDBStore struct {
	db *dynamodb.DynamoDB
}

// NewDynamoDBStore connects to DynamoDB. A non-empty endpoint overrides the
// AWS endpoint, which is how the contract tests point at dynamodb-local.
func NewDynamoDBStore(endpoint string) (*DynamoDBStore, error) {
	config := aws.NewConfig()
	if endpoint != "" {
		config = config.WithEndpoint(endpoint)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	s := &DynamoDBStore{db: dynamodb.New(sess)}
	if err := s.ensureTable(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DynamoDBStore) ensureTable() error {
	_, err := s.db.DescribeTable(&dynamodb.DescribeTableInput{TableName: aws.String(dynamoTableName)})
	if err == nil {
		return nil
	}
	var awsErr awserr.Error
	if !errors.As(err, &awsErr) || awsErr.Code() != dynamodb.ErrCodeResourceNotFoundException {
		return fmt.Errorf("failed to query DynamoDB table state: %w", err)
	}
	_, err = s.db.CreateTable(&dynamodb.CreateTableInput{
		TableName: aws.String(dynamoTableName),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String(dynamoPartitionKey), AttributeType: aws.String("S")},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String(dynamoPartitionKey), KeyType: aws.String("HASH")},
		},
		ProvisionedThroughput: &dynamodb.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create DynamoDB table: %w", err)
	}
	return s.db.WaitUntilTableExists(&dynamodb.DescribeTableInput{TableName: aws.String(dynamoTableName)})
}

func (s *DynamoDBStore) Insert(ctx context.Context, post model.Post) (model.Post, error) {
	post = prepareForInsert(post, uuid.NewString)
	data, err := encodePost(post)
	if err != nil {
		return model.Post{}, err
	}
	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dynamoTableName),
		Item: map[string]*dynamodb.AttributeValue{
			dynamoPartitionKey:      {S: aws.String(post.ID)},
			dynamoDocumentAttribute: {S: aws.String(string(data))},
		},
	})
	if err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *DynamoDBStore) InsertMany(ctx context.Context, posts []model.Post) (int, error) {
	for _, p := range posts {
		if _, err := s.Insert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(posts), nil
}

func (s *DynamoDBStore) FindAll(ctx context.Context) ([]model.Post, error) {
	var ret []model.Post
	input := &dynamodb.ScanInput{
		TableName:      aws.String(dynamoTableName),
		ConsistentRead: aws.Bool(true),
	}
	err := s.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			doc := item[dynamoDocumentAttribute]
			if doc == nil || doc.S == nil {
				continue
			}
			p, err := decodePost([]byte(*doc.S))
			if err != nil {
				continue
			}
			ret = append(ret, p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sortPosts(ret)
	return ret, nil
}

func (s *DynamoDBStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	result, err := s.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(dynamoTableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			dynamoPartitionKey: {S: aws.String(id)},
		},
	})
	if err != nil {
		return model.Post{}, err
	}
	if result.Item == nil {
		return model.Post{}, ErrNotFound
	}
	doc := result.Item[dynamoDocumentAttribute]
	if doc == nil || doc.S == nil {
		return model.Post{}, ErrNotFound
	}
	return decodePost([]byte(*doc.S))
}

func (s *DynamoDBStore) FindOne(ctx context.Context) (model.Post, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return model.Post{}, err
	}
	if len(all) == 0 {
		return model.Post{}, ErrNotFound
	}
	return all[0], nil
}

func (s *DynamoDBStore) UpdateByID(ctx context.Context, id string, update PostUpdate) error {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	update.applyTo(&p)
	data, err := encodePost(p)
	if err != nil {
		return err
	}
	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dynamoTableName),
		Item: map[string]*dynamodb.AttributeValue{
			dynamoPartitionKey:      {S: aws.String(id)},
			dynamoDocumentAttribute: {S: aws.String(string(data))},
		},
		// the record could have been deleted between the read and this write
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if isConditionalCheckFailed(err) {
		return ErrNotFound
	}
	return err
}

func (s *DynamoDBStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(dynamoTableName),
		Key: map[string]*dynamodb.AttributeValue{
			dynamoPartitionKey: {S: aws.String(id)},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if isConditionalCheckFailed(err) {
		return ErrNotFound
	}
	return err
}

func (s *DynamoDBStore) Count(ctx context.Context) (int, error) {
	total := 0
	input := &dynamodb.ScanInput{
		TableName:      aws.String(dynamoTableName),
		ConsistentRead: aws.Bool(true),
		Select:         aws.String(dynamodb.SelectCount),
	}
	err := s.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		if page.Count != nil {
			total += int(*page.Count)
		}
		return true
	})
	return total, err
}

func (s *DynamoDBStore) DropAll(ctx context.Context) error {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(dynamoTableName),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(dynamoPartitionKey),
	}
	var ids []string
	err := s.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			if key := item[dynamoPartitionKey]; key != nil && key.S != nil {
				ids = append(ids, *key.S)
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		_, err := s.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(dynamoTableName),
			Key: map[string]*dynamodb.AttributeValue{
				dynamoPartitionKey: {S: aws.String(id)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *DynamoDBStore) Close(context.Context) error { return nil }

func isConditionalCheckFailed(err error) bool {
	var awsErr awserr.Error
	return errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}
