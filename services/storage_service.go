// file: services/storage_service.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StorageDriver 附件存储驱动。平台只依赖这个接口，
// 本地磁盘实现用于单机部署，对象存储实现可以在不动控制器的情况下替换。
type StorageDriver interface {
	// Save 写入文件，返回存储键、字节数与 SHA256
	Save(fileName string, src io.Reader) (objectKey string, size uint64, sum string, err error)
	Remove(objectKey string) error
	// LocalPath 返回可直接下发的本地路径，非本地驱动返回 ""
	LocalPath(objectKey string) string
}

var Storage StorageDriver

// InitStorage 初始化默认的本地磁盘驱动
func InitStorage(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建上传目录失败: %w", err)
	}
	Storage = &LocalDriver{dir: dir}
	return nil
}

// LocalDriver 本地磁盘存储
type LocalDriver struct {
	dir string
}

func (d *LocalDriver) Save(fileName string, src io.Reader) (string, uint64, string, error) {
	// 只保留文件名部分，防止路径穿越
	name := filepath.Base(fileName)
	dst := filepath.Join(d.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", 0, "", err
	}
	defer f.Close()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hasher), src)
	if err != nil {
		return "", 0, "", err
	}

	return dst, uint64(size), hex.EncodeToString(hasher.Sum(nil)), nil
}

func (d *LocalDriver) Remove(objectKey string) error {
	return os.Remove(objectKey)
}

func (d *LocalDriver) LocalPath(objectKey string) string {
	return objectKey
}
