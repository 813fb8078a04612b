package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the repository.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type dynamoResumeRepository struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoResumeRepository(client DynamoDBAPI, tableName string) ResumeRepository {
	return &dynamoResumeRepository{
		client:    client,
		tableName: tableName,
	}
}

func (d *dynamoResumeRepository) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"resume_id": &types.AttributeValueMemberS{Value: id},
	}
}

func (d *dynamoResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	item, err := attributevalue.MarshalMap(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (d *dynamoResumeRepository) FindByID(ctx context.Context, id string) (*models.Resume, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrResumeNotFound
	}

	var resume models.Resume
	if err := attributevalue.UnmarshalMap(out.Item, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	return &resume, nil
}

func (d *dynamoResumeRepository) UpdateAnalysis(ctx context.Context, id string, update *AnalysisUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	set := expression.
		Set(expression.Name("status"), expression.Value(string(update.Status))).
		Set(expression.Name("analysis_timestamp"), expression.Value(update.AnalysisTimestamp))

	if update.AnalysisResults != nil {
		set = set.Set(expression.Name("analysis_results"), expression.Value(*update.AnalysisResults))
	}
	if update.ErrorMessage != nil {
		set = set.Set(expression.Name("error_message"), expression.Value(*update.ErrorMessage))
	}
	if update.CompatibilityScore != nil {
		set = set.Set(expression.Name("compatibility_score"), expression.Value(*update.CompatibilityScore))
	}
	if update.TopTechnicalSkillsFound != nil {
		set = set.Set(expression.Name("top_technical_skills_found"), expression.Value(update.TopTechnicalSkillsFound))
	}
	if update.CompatibilityExplanation != nil {
		set = set.Set(expression.Name("compatibility_explanation"), expression.Value(*update.CompatibilityExplanation))
	}
	if update.SuggestedKeywords != nil {
		set = set.Set(expression.Name("suggested_keywords"), expression.Value(update.SuggestedKeywords))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(set).
		WithCondition(expression.AttributeExists(expression.Name("resume_id"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       d.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrResumeNotFound
		}
		return fmt.Errorf("failed to update analysis: %w", err)
	}
	return nil
}
