package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/database/mongoclient"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/domain"
)

const (
	queryMaxTime     = 20 * time.Second
	slowLogThreshold = 500 * time.Millisecond
)

type impl struct {
	client *mongoclient.Client
}

// New initializes an impl
func New(client *mongoclient.Client) Mongo {
	return &impl{client: client}
}

func (im *impl) collection(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) logerr(context bCtx.Ctx, msg string, err error) {
	context.WithField("err", err).Error(msg)
}

func (im *impl) Insert(context bCtx.Ctx, table domain.Table, insert interface{}) error {
	defer slowLog(context, table, "insert", nil)()

	if _, err := im.collection(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(context, "Insert: InsertOne failed", err)
		return err
	}
	return nil
}

func (im *impl) FindOne(context bCtx.Ctx, table domain.Table, query, result interface{}) error {
	defer slowLog(context, table, "findone", query)()

	findOneOpts := options.FindOne().SetMaxTime(queryMaxTime)
	res := im.collection(table).FindOne(context, query, findOneOpts)
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(context, "FindOne: FindOne failed", err)
		return err
	}
	return nil
}

func (im *impl) Count(context bCtx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer slowLog(context, table, "count", selector)()

	opts := options.Count().SetMaxTime(queryMaxTime)
	count, err := im.collection(table).CountDocuments(context, selector, opts)
	if err != nil {
		im.logerr(context, "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(count), nil
}

func (im *impl) Upsert(context bCtx.Ctx, table domain.Table, selector, update interface{}) error {
	defer slowLog(context, table, "upsert", selector)()

	replaceOpts := options.Replace().SetUpsert(true)
	if _, err := im.collection(table).ReplaceOne(context, selector, update, replaceOpts); err != nil {
		im.logerr(context, "Upsert: ReplaceOne failed", err)
		return err
	}
	return nil
}

func (im *impl) Search(context bCtx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer slowLog(context, table, "search", query)()

	findOpts := options.Find().SetMaxTime(queryMaxTime)
	findOpts.SetLimit(int64(limit)).SetSkip(int64(offset))
	if sortOpt := sortOption(sort); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}
	cursor, err := im.collection(table).Find(context, query, findOpts)
	if err != nil {
		im.logerr(context, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		im.logerr(context, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Patch(context bCtx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error {
	defer slowLog(context, table, "patch", selector)()

	o := &patchOp{}
	for _, opt := range ops {
		opt(o)
	}

	var (
		err       error
		updateRes *mongo.UpdateResult
	)
	updater := bson.M{"$set": update}
	if o.patchMany {
		updateRes, err = im.collection(table).UpdateMany(context, selector, updater)
	} else {
		updateRes, err = im.collection(table).UpdateOne(context, selector, updater)
	}
	if err != nil {
		im.logerr(context, "Patch: update failed", err)
		return err
	}
	if updateRes.MatchedCount == 0 && updateRes.ModifiedCount == 0 && updateRes.UpsertedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) Increment(context bCtx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error {
	defer slowLog(context, table, "increment", selector)()

	updater := bson.M{"$inc": bson.M{field: inc}}
	findOneAndUpdateOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := im.collection(table).FindOneAndUpdate(context, selector, updater, findOneAndUpdateOpts)
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(context, "Increment: FindOneAndUpdate failed", err)
		return err
	}
	return nil
}

func (im *impl) Remove(context bCtx.Ctx, table domain.Table, selector interface{}) error {
	defer slowLog(context, table, "remove", selector)()

	deletedRes, err := im.collection(table).DeleteOne(context, selector)
	if err != nil {
		im.logerr(context, "Remove: DeleteOne failed", err)
		return err
	}
	if deletedRes.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) RemoveAll(context bCtx.Ctx, table domain.Table, selector interface{}) (int64, error) {
	defer slowLog(context, table, "removeAll", selector)()

	deletedRes, err := im.collection(table).DeleteMany(context, selector)
	if err != nil {
		im.logerr(context, "RemoveAll: DeleteMany failed", err)
		return 0, err
	}
	return deletedRes.DeletedCount, nil
}

func sortOption(sort string) bson.D {
	res := bson.D{}
	if sort == "" {
		return res
	}
	if sort[0] == '-' {
		return append(res, bson.E{Key: sort[1:], Value: -1})
	}
	return append(res, bson.E{Key: sort, Value: 1})
}

func slowLog(context bCtx.Ctx, table domain.Table, action string, query interface{}) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		if elapsed >= slowLogThreshold {
			context.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"durationMs": elapsed.Milliseconds(),
				"query":      query,
			}).Warn("mongo slowlog")
		}
	}
}
