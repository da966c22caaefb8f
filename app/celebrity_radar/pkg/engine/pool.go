package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

// outcome 一个任务的结果，携带实体名
type outcome struct {
	name   string
	result *model.ProcessingResult
	err    error
}

// workerPool 固定大小的 worker 池，从任务 channel 读取实体名
type workerPool struct {
	size int
}

func newWorkerPool(size int) (*workerPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid worker pool size %d", size)
	}
	return &workerPool{size: size}, nil
}

// run 分发全部任务，按完成顺序回调 onDone。onDone 只在调用方 goroutine 中执行
func (p *workerPool) run(ctx context.Context, proc Processor, names []string, onDone func(outcome)) {
	tasks := make(chan string)
	results := make(chan outcome, len(names))

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range tasks {
				results <- runTask(ctx, proc, name)
			}
		}()
	}

	go func() {
		for _, name := range names {
			tasks <- name
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		onDone(o)
	}
}

// runTask 执行单个实体，panic 视为该任务失败
func runTask(ctx context.Context, proc Processor, name string) (o outcome) {
	o.name = name
	defer func() {
		if r := recover(); r != nil {
			o.result = nil
			o.err = fmt.Errorf("panic: %v", r)
		}
	}()
	o.result, o.err = proc.Process(ctx, name)
	return o
}
