package validator

import (
	"context"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// DefaultThreshold 默认提及数门槛
const DefaultThreshold int64 = 100

// MentionCounter 返回名字的外部提及数，失败时返回 0
type MentionCounter interface {
	TotalMentions(ctx context.Context, name string) int64
}

// Validator 判断名人是否达到追踪门槛
type Validator struct {
	counter   MentionCounter
	threshold int64
}

// NewValidator 创建 Validator，threshold 为负数时使用默认值
func NewValidator(counter MentionCounter, threshold int64) *Validator {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Validator{counter: counter, threshold: threshold}
}

// Validate 返回是否达到门槛以及提及数
func (v *Validator) Validate(ctx context.Context, name string) (bool, int64) {
	count := v.counter.TotalMentions(ctx, name)
	if count >= v.threshold {
		logger.Log.Infof("✓ %s: %d mentions (threshold: %d)", name, count, v.threshold)
		return true, count
	}
	logger.Log.Infof("✗ %s: %d mentions (below threshold: %d)", name, count, v.threshold)
	return false, count
}

// ValidateBatch 按输入顺序逐个校验，只保留通过的条目
func (v *Validator) ValidateBatch(ctx context.Context, entities []model.Entity) []model.ValidationResult {
	validated := []model.ValidationResult{}
	for _, e := range entities {
		ok, count := v.Validate(ctx, e.Name)
		if ok {
			validated = append(validated, model.ValidationResult{Name: e.Name, MentionCount: count})
		}
	}
	logger.Log.Infof("校验完成: %d/%d 通过", len(validated), len(entities))
	return validated
}
