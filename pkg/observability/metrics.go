package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsClient is the subset of the CloudWatch API used here
type MetricsClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes operational counters to CloudWatch. All publishing is
// best-effort; callers are expected to ignore the returned error outside
// of logging.
type Metrics struct {
	namespace string
	client    MetricsClient
}

// NewMetrics creates a metrics publisher under the given namespace
func NewMetrics(namespace string, client MetricsClient) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// Count publishes a count metric with optional dimensions
func (m *Metrics) Count(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
	return err
}
