package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"bayes/internal/domain"
	"bayes/internal/port"
)

// PredictionCache is an LRU of predictions keyed by document text and score
// format. Entries computed under an older model generation are misses.
type PredictionCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	prediction domain.Prediction
	timestamp  time.Time
	generation uint64
}

func NewPredictionCache(maxSize int, ttl time.Duration) *PredictionCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PredictionCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(text string, format domain.ProbabilityFormat) string {
	data := []byte(text)
	data = append(data, 0, byte(format))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *PredictionCache) Get(text string, format domain.ProbabilityFormat, generation uint64) (domain.Prediction, bool) {
	c.mu.RLock()
	key := cacheKey(text, format)
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return domain.Prediction{}, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.generation != generation {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return domain.Prediction{}, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return clonePrediction(entry.prediction), true
}

func (c *PredictionCache) Put(text string, format domain.ProbabilityFormat, generation uint64, p domain.Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(text, format)
	entry := &cacheEntry{
		prediction: clonePrediction(p),
		timestamp:  time.Now(),
		generation: generation,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *PredictionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *PredictionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *PredictionCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *PredictionCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *PredictionCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func clonePrediction(p domain.Prediction) domain.Prediction {
	if p.Scores != nil {
		scores := make(map[string]float64, len(p.Scores))
		for k, v := range p.Scores {
			scores[k] = v
		}
		p.Scores = scores
	}
	return p
}

// Classifier is the part of a model the cache needs.
type Classifier interface {
	Classify(in port.Input, format domain.ProbabilityFormat) (string, bool, map[string]float64)
	Generation() uint64
}

// CachedClassifier serves repeated text predictions from a PredictionCache.
type CachedClassifier struct {
	classifier Classifier
	cache      *PredictionCache
}

func NewCachedClassifier(classifier Classifier, cache *PredictionCache) *CachedClassifier {
	return &CachedClassifier{
		classifier: classifier,
		cache:      cache,
	}
}

// Predict classifies text, reusing a cached prediction while the model is
// unchanged. The returned Source is left for the caller to fill.
func (c *CachedClassifier) Predict(text string, format domain.ProbabilityFormat) domain.Prediction {
	generation := c.classifier.Generation()
	if p, hit := c.cache.Get(text, format, generation); hit {
		return p
	}

	p := Predict(c.classifier, port.Text(text), format)
	c.cache.Put(text, format, generation, p)
	return p
}

// Predict classifies in without caching.
func Predict(classifier Classifier, in port.Input, format domain.ProbabilityFormat) domain.Prediction {
	category, found, scores := classifier.Classify(in, format)
	return domain.Prediction{
		Category: category,
		Found:    found,
		Format:   format.String(),
		Scores:   scores,
	}
}
