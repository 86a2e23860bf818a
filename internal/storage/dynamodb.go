//go:generate mockgen -destination=mocks/mock_locker.go -package=mocks github.com/gruntwork-io/casper/internal/storage Locker

package storage

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/pkg/log"
)

const (
	// AttrLockID is the hash key of the lock table, the same key Terraform's S3 backend uses.
	AttrLockID = "LockID"

	attrInfo    = "Info"
	attrCreated = "Created"

	lockConditionExpression = "attribute_not_exists(" + AttrLockID + ")"
)

// Locker serializes writers of a shared store.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// DynamoDBAPI is the part of the DynamoDB client the lock uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoDBLock holds an item in a DynamoDB table while the inventory is written.
type DynamoDBLock struct {
	client DynamoDBAPI
	logger log.Logger
	table  string
	lockID string
}

// NewDynamoDBLock returns a lock on the item lockID of table.
func NewDynamoDBLock(client DynamoDBAPI, table, lockID string, l log.Logger) *DynamoDBLock {
	return &DynamoDBLock{client: client, table: table, lockID: lockID, logger: l}
}

// Lock creates the lock item. It fails with StateLockedError when the item already exists.
func (lock *DynamoDBLock) Lock(ctx context.Context) error {
	lock.logger.Debugf("Acquiring lock %s in DynamoDB table %s", lock.lockID, lock.table)

	_, err := lock.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(lock.table),
		Item: map[string]dbtypes.AttributeValue{
			AttrLockID:  &dbtypes.AttributeValueMemberS{Value: lock.lockID},
			attrInfo:    &dbtypes.AttributeValueMemberS{Value: "casper-" + strconv.Itoa(os.Getpid())},
			attrCreated: &dbtypes.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String(lockConditionExpression),
	})
	if err != nil {
		var conditionErr *dbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return errors.New(StateLockedError{Table: lock.table, LockID: lock.lockID})
		}

		return errors.Errorf("failed to acquire lock %s in DynamoDB table %s: %w", lock.lockID, lock.table, err)
	}

	return nil
}

// Unlock deletes the lock item.
func (lock *DynamoDBLock) Unlock(ctx context.Context) error {
	lock.logger.Debugf("Releasing lock %s in DynamoDB table %s", lock.lockID, lock.table)

	if _, err := lock.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(lock.table),
		Key: map[string]dbtypes.AttributeValue{
			AttrLockID: &dbtypes.AttributeValueMemberS{Value: lock.lockID},
		},
	}); err != nil {
		return errors.Errorf("failed to release lock %s in DynamoDB table %s: %w", lock.lockID, lock.table, err)
	}

	return nil
}
