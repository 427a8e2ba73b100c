package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// ErrStoreClosed 底层存储已关闭错误
var ErrStoreClosed = errors.New("底层存储已关闭")

// fileRecord 日志文件中的一行
// 键和值以[]byte编码为base64，任意字节都能原样还原
type fileRecord struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// FileBaseStore 基于追加日志文件的底层存储
// 每次Set追加一行JSON并同步到磁盘，打开时重放日志恢复数据
type FileBaseStore struct {
	path   string
	data   map[string]string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewFileBaseStore 打开或创建日志文件并重放已有记录
// path: 日志文件路径
// 返回: FileBaseStore实例和错误信息
func NewFileBaseStore(path string) (*FileBaseStore, error) {
	s := &FileBaseStore{
		path: path,
		data: make(map[string]string),
	}
	if err := s.replay(); err != nil {
		return nil, err
	}
	if err := s.openForAppend(); err != nil {
		return nil, err
	}
	return s, nil
}

// replay 读取日志文件恢复数据，文件不存在视为空存储
func (s *FileBaseStore) replay() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// base64编码后一行不会超过原始长度的两倍
	scanner.Buffer(make([]byte, 0, 4096), 2*(cache.MaxKeyLength+cache.MaxValueLength)+64)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec fileRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("解析日志文件第 %d 行失败: %w", lineNum, err)
		}
		s.data[string(rec.Key)] = string(rec.Value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取日志文件失败: %w", err)
	}
	return nil
}

func (s *FileBaseStore) openForAppend() error {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	s.file = file
	s.writer = bufio.NewWriter(file)
	return nil
}

// Get 获取存储中的值，键不存在时返回ErrKeyNotFound
func (s *FileBaseStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return "", ErrStoreClosed
	}
	val, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%w, key: %s", cache.ErrKeyNotFound, key)
	}
	return val, nil
}

// Set 追加一条记录并同步到磁盘，成功后才更新内存索引
// 键和值的长度限制与缓存一致，超限的记录不会写入日志
func (s *FileBaseStore) Set(ctx context.Context, key string, value string) error {
	if _, err := cache.NewCacheKey(key); err != nil {
		return err
	}
	if err := cache.ValidateValue(value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrStoreClosed
	}
	if err := s.appendRecord(fileRecord{Key: []byte(key), Value: []byte(value)}); err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *FileBaseStore) appendRecord(rec fileRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}
	if _, err = s.writer.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("写入日志文件失败: %w", err)
	}
	if err = s.writer.Flush(); err != nil {
		return fmt.Errorf("刷新日志文件失败: %w", err)
	}
	if err = s.file.Sync(); err != nil {
		return fmt.Errorf("同步日志文件失败: %w", err)
	}
	return nil
}

// Compact 重写日志文件，每个键只保留最新的一条记录
func (s *FileBaseStore) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrStoreClosed
	}

	tmpPath := s.path + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for k, v := range s.data {
		if err = enc.Encode(fileRecord{Key: []byte(k), Value: []byte(v)}); err != nil {
			tmp.Close()
			return fmt.Errorf("写入临时文件失败: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("刷新临时文件失败: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("同步临时文件失败: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err = s.file.Close(); err != nil {
		return fmt.Errorf("关闭日志文件失败: %w", err)
	}
	s.file = nil
	if err = os.Rename(tmpPath, s.path); err != nil {
		return errors.Join(fmt.Errorf("替换日志文件失败: %w", err), s.openForAppend())
	}
	return s.openForAppend()
}

// Len 返回存储的键数量
func (s *FileBaseStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Close 关闭日志文件，重复关闭返回nil
func (s *FileBaseStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.writer.Flush(); err != nil {
		return err
	}
	err := s.file.Close()
	s.file = nil
	return err
}
