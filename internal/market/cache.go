package market

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// cacheManager handles file-based caching of fetched series.
type cacheManager struct {
	cacheDir     string
	ttl          time.Duration
	cacheEnabled bool
}

func newCacheManager(cacheDir string, ttl time.Duration, cacheEnabled bool) *cacheManager {
	return &cacheManager{
		cacheDir:     cacheDir,
		ttl:          ttl,
		cacheEnabled: cacheEnabled,
	}
}

// cacheKey generates a cache file name from parameters.
func (cm *cacheManager) cacheKey(method string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("alphavantage_%s_%x.json", method, hash)
}

// get retrieves data from cache if not expired.
func (cm *cacheManager) get(method string, params interface{}, result interface{}) bool {
	if !cm.cacheEnabled {
		return false
	}

	filePath := filepath.Join(cm.cacheDir, cm.cacheKey(method, params))

	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > cm.ttl {
		os.Remove(filePath) // Remove expired cache
		return false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, result) == nil
}

// set stores data in cache.
func (cm *cacheManager) set(method string, params interface{}, data interface{}) error {
	if !cm.cacheEnabled {
		return nil
	}

	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(cm.cacheDir, cm.cacheKey(method, params)), jsonData, 0644)
}
