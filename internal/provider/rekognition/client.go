package rekognition

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied       = "AccessDeniedException"
	errCodeUnrecognizedClient = "UnrecognizedClientException"
	errCodeInvalidParameter   = "InvalidParameterException"
	errCodeInvalidImageFormat = "InvalidImageFormatException"
	errCodeImageTooLarge      = "ImageTooLargeException"
	errCodeThrottling         = "ThrottlingException"
	errCodeThroughput         = "ProvisionedThroughputExceededException"
)

// DetectFacesAPI is the subset of the Rekognition client used by this package
type DetectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Client wraps the AWS Rekognition client
type Client struct {
	rekognition DetectFacesAPI
	config      Config
}

// NewClient creates a new Rekognition client with the provided configuration
// It uses the AWS default credential chain to authenticate
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	// Load AWS SDK config using default credential chain
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewClientWithAPI(rekognition.NewFromConfig(awsCfg), cfg), nil
}

// NewClientWithAPI wraps an existing DetectFacesAPI implementation
func NewClientWithAPI(api DetectFacesAPI, cfg Config) *Client {
	return &Client{
		rekognition: api,
		config:      cfg,
	}
}

// DetectFaces runs DetectFaces with every facial attribute, emotions included
func (c *Client) DetectFaces(ctx context.Context, image []byte) ([]types.FaceDetail, error) {
	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := c.rekognition.DetectFaces(ctx, input)
	if err != nil {
		return nil, ParseAPIError(err)
	}

	return output.FaceDetails, nil
}

// ParseAPIError maps AWS error codes onto package sentinels, keeping the
// original error in the chain
func ParseAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied, errCodeUnrecognizedClient:
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		case errCodeInvalidParameter, errCodeInvalidImageFormat, errCodeImageTooLarge:
			if msg := apiErr.ErrorMessage(); msg != "" {
				return fmt.Errorf("%w: %s", ErrInvalidImage, msg)
			}
			return ErrInvalidImage
		case errCodeThrottling, errCodeThroughput:
			return fmt.Errorf("%w: %v", ErrThrottled, err)
		}
	}

	return fmt.Errorf("detect faces: %w", err)
}
