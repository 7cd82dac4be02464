package lambda

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/gh-stars/internal/commands"
	"github.com/stahnma/gh-stars/internal/render"
)

// Event is the Lambda invocation payload.
type Event struct {
	Template string         `json:"template"`
	Engine   string         `json:"engine"`
	Vars     map[string]any `json:"vars"`
}

// Uploader is the subset of the S3 client the handler needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewHandler returns a Lambda handler that renders the event's template and
// uploads the result to S3.
func NewHandler(app *commands.App) func(context.Context, Event) (string, error) {
	return newHandler(app, newS3Uploader)
}

func newS3Uploader(ctx context.Context) (Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func newHandler(app *commands.App, uploader func(context.Context) (Uploader, error)) func(context.Context, Event) (string, error) {
	return func(ctx context.Context, event Event) (string, error) {
		s3Bucket := os.Getenv("S3_BUCKET_NAME")
		s3ObjectKey := os.Getenv("S3_OBJECT_KEY")
		if s3Bucket == "" || s3ObjectKey == "" {
			return "", fmt.Errorf("S3_BUCKET_NAME and S3_OBJECT_KEY environment variables must be set")
		}
		if strings.Contains(s3ObjectKey, "%s") {
			s3ObjectKey = fmt.Sprintf(s3ObjectKey, time.Now().Format("2006-Jan-02"))
		}

		engine := event.Engine
		if engine == "" {
			engine = render.EngineLiquid
		}
		// Each invocation is its own build run, even in a warm container.
		app.Reset()
		out, err := app.RenderString(ctx, engine, event.Template, event.Vars)
		if err != nil {
			return "", fmt.Errorf("render: %w", err)
		}
		if out == "" {
			return "", fmt.Errorf("render produced no output")
		}

		svc, err := uploader(ctx)
		if err != nil {
			return "", err
		}
		input := &s3.PutObjectInput{
			Bucket: aws.String(s3Bucket),
			Key:    aws.String(s3ObjectKey),
			Body:   bytes.NewReader([]byte(out)),
		}
		if ct := mime.TypeByExtension(path.Ext(s3ObjectKey)); ct != "" {
			input.ContentType = aws.String(ct)
		}
		if _, err := svc.PutObject(ctx, input); err != nil {
			return "", fmt.Errorf("failed to upload file to S3: %w", err)
		}

		return fmt.Sprintf("Rendered %d bytes to s3://%s/%s", len(out), s3Bucket, s3ObjectKey), nil
	}
}
