package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Iron-Ham/kanban/internal/task"
)

// Redis stores each task in a hash and keeps creation order in a list.
//
// Keys, under prefix p:
//
//	p:next_id     INCR counter for ids
//	p:ids         list of ids in creation order
//	p:task:<id>   hash with title, description and stage
type Redis struct {
	client *redis.Client
	prefix string
	owned  bool
}

// OpenRedis connects to the server at url (redis://host:port/db) and checks it
// responds.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	r := NewRedis(client, prefix)
	r.owned = true
	return r, nil
}

// NewRedis wraps an existing client. Close does not close a client passed in
// this way.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "kanban"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) counterKey() string      { return r.prefix + ":next_id" }
func (r *Redis) orderKey() string        { return r.prefix + ":ids" }
func (r *Redis) taskKey(id int64) string { return r.prefix + ":task:" + strconv.FormatInt(id, 10) }

func (r *Redis) List(ctx context.Context) ([]task.Task, error) {
	ids, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list task ids: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if len(ids) > 0 {
		_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, raw := range ids {
				cmds[i] = pipe.HGetAll(ctx, r.prefix+":task:"+raw)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
	}

	tasks := make([]task.Task, 0, len(ids))
	for i, raw := range ids {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			// deleted between LRANGE and HGETALL
			continue
		}
		stage, err := task.ParseStage(fields["stage"])
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", raw, err)
		}
		tasks = append(tasks, task.Task{
			ID:          task.ID(raw),
			Title:       fields["title"],
			Description: fields["description"],
			Stage:       stage,
		})
	}
	return tasks, nil
}

func (r *Redis) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	id, err := r.client.Incr(ctx, r.counterKey()).Result()
	if err != nil {
		return task.Task{}, fmt.Errorf("allocate task id: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.taskKey(id), draftFields(draft))
		pipe.RPush(ctx, r.orderKey(), id)
		return nil
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}, nil
}

func (r *Redis) Update(ctx context.Context, id int64, draft task.Draft) (task.Task, error) {
	key := r.taskKey(id)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, draftFields(draft))
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return task.Task{}, fmt.Errorf("update task %d: concurrent modification: %w", id, err)
		}
		return task.Task{}, err
	}
	return task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}, nil
}

func (r *Redis) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.taskKey(id))
		pipe.LRem(ctx, r.orderKey(), 0, strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the client if OpenRedis created it.
func (r *Redis) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}

func draftFields(d task.Draft) map[string]any {
	return map[string]any{
		"title":       d.Title,
		"description": d.Description,
		"stage":       d.Stage.String(),
	}
}
