package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"regime-scanner/internal/model"

	"go.uber.org/zap"
)

// ErrCorruptReport 表示报告文件存在但内容无法解析
var ErrCorruptReport = errors.New("corrupt report")

// FileStore 每个周期一个 JSON 报告文件：<Dir>/<Prefix>_<timeframe>.json
type FileStore struct {
	Dir    string
	Prefix string
	logger *zap.Logger
}

// NewFileStore 创建报告存储
func NewFileStore(dir, prefix string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{Dir: dir, Prefix: prefix, logger: logger.With(zap.String("component", "report-store"))}
}

// Path 返回某个周期的报告文件路径
func (s *FileStore) Path(timeframe string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.json", s.Prefix, timeframe))
}

// Load 读取某个周期的历史信号。
// 文件不存在返回空列表；内容损坏返回包装了 ErrCorruptReport 的错误。
// entry_date 无法解析的单条记录会被跳过。
func (s *FileStore) Load(timeframe string) ([]model.Signal, error) {
	path := s.Path(timeframe)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptReport, path, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	signals := make([]model.Signal, 0, len(docs[0].Sections))
	for _, rec := range docs[0].Sections {
		sig, err := ToSignal(rec)
		if err != nil {
			s.logger.Warn("Skipping unreadable report record",
				zap.String("file", path), zap.String("symbol", rec.Symbol), zap.Error(err))
			continue
		}
		signals = append(signals, sig)
	}
	return signals, nil
}

// Save 用 signals 整体替换某个周期的报告文件
func (s *FileStore) Save(timeframe string, signals []model.Signal) error {
	doc := BuildDocument(signals)
	path := s.Path(timeframe)
	if err := WriteJSONAtomic(path, []Document{doc}); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	s.logger.Info("Saved report", zap.String("file", path), zap.Int("sections", len(doc.Sections)))
	return nil
}

// WriteJSONAtomic 先写同目录临时文件再 rename，写入中途失败不会破坏旧文件
func WriteJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
