package influxdb

import (
	"context"
	"time"

	influxdb "github.com/influxdata/influxdb/client/v2"
)

// DefaultDatabase receives metrics unless configured otherwise
const DefaultDatabase = "pkgsync"

// MetricPoint represents a single row in a batch of measurements
type MetricPoint struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Timestamp   time.Time
}

// Store writes metrics to an influxdb database
type Store interface {
	Database() string
	Ping(context.Context, time.Duration) error
	WriteBatch(context.Context, []MetricPoint) error
	Close() error
}

var _ Store = &influxDB{}

type influxDB struct {
	config   influxdb.HTTPConfig
	client   influxdb.Client
	database string
	mapper   func(string, map[string]string) (string, map[string]string)
	err      error
}

// NewStore builds a client to an influxdb server. It defaults to http://localhost:8086, database "pkgsync".
func NewStore(opts ...StoreOption) (Store, error) {
	db := &influxDB{
		config: influxdb.HTTPConfig{
			Addr: "http://localhost:8086",
		},
		database: DefaultDatabase,
	}
	for _, apply := range opts {
		apply(db)
	}
	if db.err != nil {
		return nil, db.err
	}
	c, err := influxdb.NewHTTPClient(db.config)
	if err != nil {
		return nil, err
	}
	db.client = c
	return db, nil
}

func (db *influxDB) Database() string {
	return db.database
}

func (db *influxDB) Ping(_ context.Context, timeout time.Duration) error {
	_, _, err := db.client.Ping(timeout)
	return err
}

func (db *influxDB) WriteBatch(_ context.Context, points []MetricPoint) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  db.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}
	for _, point := range points {
		if db.mapper != nil {
			point.Measurement, point.Tags = db.mapper(point.Measurement, point.Tags)
		}
		pt, err := influxdb.NewPoint(point.Measurement, point.Tags, point.Fields, point.Timestamp)
		if err != nil {
			return err
		}
		bp.AddPoint(pt)
	}
	return db.client.Write(bp)
}

func (db *influxDB) Close() error {
	return db.client.Close()
}
