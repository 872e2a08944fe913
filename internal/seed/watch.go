package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// 편집기가 파일을 여러 번 나눠 쓰는 경우를 묶기 위한 대기 시간
const reloadDelay = 200 * time.Millisecond

// Watch: dir의 *.json 변경을 감시하고, 다시 읽기에 성공하면 onChange를 호출한다.
// 파싱에 실패하면 로그만 남기고 기존 데이터를 유지한다. ctx가 끝날 때까지 블록된다.
func Watch(ctx context.Context, dir string, logger *zap.Logger, onChange func(*Data)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch seed directory %s: %w", dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("seed file changed", zap.String("file", filepath.Base(event.Name)), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Stop()
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			data, err := LoadDir(dir)
			if err != nil {
				logger.Warn("seed reload failed, keeping previous data", zap.Error(err))
				continue
			}
			logger.Info("seed reloaded",
				zap.Int("restaurants", len(data.Restaurants)),
				zap.Int("dishes", len(data.Dishes)),
				zap.Int("reviews", len(data.Reviews)))
			onChange(data)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("seed watcher error", zap.Error(err))
		}
	}
}
