package awssm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

const resourceNotFoundException = "ResourceNotFoundException"

// ManagerAPI is the subset of the Secrets Manager client the store calls.
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

// Store keeps each key as one string secret in AWS Secrets Manager.
type Store struct {
	api ManagerAPI
}

var _ ports.SecretStore = (*Store)(nil)

// NewStore loads the default AWS configuration chain. An empty region keeps
// whatever the environment or shared config selects.
func NewStore(ctx context.Context, region string) (*Store, error) {
	var loadOptions []func(*config.LoadOptions) error
	if region != "" {
		loadOptions = append(loadOptions, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewStoreWithAPI(secretsmanager.NewFromConfig(cfg)), nil
}

func NewStoreWithAPI(api ManagerAPI) *Store {
	return &Store{api: api}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	output, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(key)})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("aws secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("get aws secret %q: %w", key, err)
	}
	if output.SecretString == nil {
		return "", fmt.Errorf("aws secret %q has no string value", key)
	}

	return *output.SecretString, nil
}

// Put updates an existing secret and creates it on first use.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(key),
		SecretString: aws.String(value),
	})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("put aws secret %q: %w", key, err)
	}

	_, err = s.api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(key),
		Description:  aws.String("csync profile credential"),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("create aws secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.api.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(key),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete aws secret %q: %w", key, err)
	}

	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == resourceNotFoundException
}
