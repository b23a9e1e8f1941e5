package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// metaKey is the reserved ID of the per-table metadata item. Node ids are
// non-negative, so -1 can never collide with an adjacency row.
const metaKey = -1

// DynamoStore keeps each graph in its own table: one item per source node
// ({ID, Edges}) plus the metadata item under ID = -1.
type DynamoStore struct {
	svc *dynamodb.Client
}

type dynamoRow struct {
	ID    int64
	Edges []uint64
}

type dynamoMeta struct {
	ID       int64
	NumNodes uint64
	NumEdges uint64
}

func OpenDynamo(ctx context.Context, cfg Config) (*DynamoStore, error) {
	region := cfg.Region
	if region == "" {
		region = DEFAULT_REGION
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}
	return &DynamoStore{svc: dynamodb.NewFromConfig(awsCfg)}, nil
}

func (s *DynamoStore) Meta(ctx context.Context, graph string) (GraphMeta, error) {
	if err := ValidateGraphName(graph); err != nil {
		return GraphMeta{}, err
	}
	res, err := s.svc.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(graph),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberN{Value: strconv.FormatInt(metaKey, 10)},
		},
	})
	if err != nil {
		return GraphMeta{}, err
	}
	if len(res.Item) == 0 {
		return GraphMeta{}, fmt.Errorf("graph %v has no metadata item", graph)
	}
	var meta dynamoMeta
	if err := attributevalue.UnmarshalMap(res.Item, &meta); err != nil {
		return GraphMeta{}, err
	}
	return GraphMeta{Name: graph, NumNodes: meta.NumNodes, NumEdges: meta.NumEdges}, nil
}

// Edges scans the whole table and filters for the partition client-side:
// dynamo cannot evaluate a modulus in a filter expression.
func (s *DynamoStore) Edges(ctx context.Context, graph string, numWorkers uint32, workerIdx uint32, fn func([]Edge) error) error {
	if err := ValidateGraphName(graph); err != nil {
		return err
	}
	batcher := NewEdgeBatcher(fn)
	paginator := dynamodb.NewScanPaginator(s.svc, &dynamodb.ScanInput{
		TableName: aws.String(graph),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			var row dynamoRow
			if err := attributevalue.UnmarshalMap(item, &row); err != nil {
				return err
			}
			if row.ID == metaKey {
				continue
			}
			source := uint32(row.ID)
			if source%numWorkers != workerIdx {
				continue
			}
			for _, target := range row.Edges {
				if err := batcher.Add(Edge{Source: source, Target: uint32(target)}); err != nil {
					return err
				}
			}
		}
	}
	return batcher.Flush()
}

func (s *DynamoStore) WriteGraph(ctx context.Context, meta GraphMeta, adjacency map[uint32][]uint32) error {
	if err := ValidateGraphName(meta.Name); err != nil {
		return err
	}
	if err := s.ensureTable(ctx, meta.Name); err != nil {
		return err
	}

	items := make([]types.WriteRequest, 0, len(adjacency)+1)
	items = append(items, types.WriteRequest{
		PutRequest: &types.PutRequest{
			Item: map[string]types.AttributeValue{
				"ID":       &types.AttributeValueMemberN{Value: strconv.FormatInt(metaKey, 10)},
				"NumNodes": &types.AttributeValueMemberN{Value: strconv.FormatUint(meta.NumNodes, 10)},
				"NumEdges": &types.AttributeValueMemberN{Value: strconv.FormatUint(meta.NumEdges, 10)},
			},
		},
	})
	for source, targets := range adjacency {
		items = append(items, marshalAdjacencyWriteReq(source, targets))
	}

	numBatches := int(math.Ceil(float64(len(items)) / float64(MAXIMUM_ITEMS_PER_BATCH)))
	for b := 0; b < numBatches; b++ {
		low := b * MAXIMUM_ITEMS_PER_BATCH
		high := low + MAXIMUM_ITEMS_PER_BATCH
		if high > len(items) {
			high = len(items)
		}
		_, err := s.svc.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				meta.Name: items[low:high],
			},
		})
		if err != nil {
			return fmt.Errorf("failed to upload batch %v/%v: %v", b+1, numBatches, err)
		}
		log.Printf("WriteGraph: uploaded batch %v/%v\n", b+1, numBatches)
	}
	return nil
}

func (s *DynamoStore) Close(ctx context.Context) error {
	return nil
}

func (s *DynamoStore) ensureTable(ctx context.Context, tableName string) error {
	_, err := s.svc.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return err
	}

	_, err = s.svc.CreateTable(ctx, &dynamodb.CreateTableInput{
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("ID"),
				AttributeType: types.ScalarAttributeTypeN,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("ID"),
				KeyType:       types.KeyTypeHash,
			},
		},
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return err
	}
	return s.waitForTable(ctx, tableName)
}

func (s *DynamoStore) waitForTable(ctx context.Context, tableName string) error {
	for i := 0; i < 30; i++ {
		out, err := s.svc.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		})
		if err == nil && out.Table.TableStatus == types.TableStatusActive {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("table %v did not become active", tableName)
}

func marshalAdjacencyWriteReq(source uint32, targets []uint32) types.WriteRequest {
	return types.WriteRequest{
		PutRequest: &types.PutRequest{
			Item: map[string]types.AttributeValue{
				"ID":    &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(source), 10)},
				"Edges": &types.AttributeValueMemberL{Value: targetsToAttributeValueSlice(targets)},
			},
		},
	}
}

func targetsToAttributeValueSlice(targets []uint32) []types.AttributeValue {
	as := make([]types.AttributeValue, len(targets))
	for idx, target := range targets {
		as[idx] = &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(target), 10)}
	}
	return as
}
