package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryPolicy 重试策略，Attempts 包含首次调用
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Retrying 为对象存储调用增加固定间隔重试
// 对象不存在、名称非法与上下文取消不重试；不可回退的上传流只尝试一次
type Retrying struct {
	next   Storage
	policy RetryPolicy
	logger *zap.Logger
}

func NewRetrying(next Storage, policy RetryPolicy, logger *zap.Logger) *Retrying {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Retrying{next: next, policy: policy, logger: logger}
}

func (r *Retrying) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	seeker, rewindable := body.(io.Seeker)
	attempts := r.policy.Attempts
	if !rewindable {
		attempts = 1
	}

	var pointer string
	first := true
	err := r.do(ctx, "put", name, attempts, func() error {
		if !first {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return backoff.Permanent(err)
			}
		}
		first = false

		var err error
		pointer, err = r.next.Put(ctx, name, body, size, contentType)
		return err
	})
	return pointer, err
}

func (r *Retrying) Get(ctx context.Context, name string) (*Object, error) {
	var obj *Object
	err := r.do(ctx, "get", name, r.policy.Attempts, func() error {
		var err error
		obj, err = r.next.Get(ctx, name)
		return err
	})
	return obj, err
}

func (r *Retrying) Delete(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := r.do(ctx, "delete", name, r.policy.Attempts, func() error {
		var err error
		deleted, err = r.next.Delete(ctx, name)
		return err
	})
	return deleted, err
}

func (r *Retrying) do(ctx context.Context, op, name string, attempts int, fn func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.policy.Delay), uint64(attempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		r.logger.Warn("对象存储调用失败，准备重试",
			zap.String("op", op),
			zap.String("object", name),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func retryable(err error) bool {
	return !errors.Is(err, ErrObjectNotFound) &&
		!errors.Is(err, ErrInvalidName) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
