package roadrunner

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Properties is a flat set of string configuration values, as collected
// from the command line and from property files.
type Properties map[string]string

func NewProperties() Properties {
	return make(Properties)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

func (self Properties) Add(key, value string) {
	self[key] = value
}

func (self Properties) Merge(other map[string]string) {
	for k, v := range other {
		self[k] = v
	}
}

// LoadProperties reads a property file. The file is a flat YAML mapping of
// option name to value; all scalar values are taken as strings.
func LoadProperties(path string) (Properties, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("invalid property file %s: %w", path, err)
	}
	props := NewProperties()
	for k, v := range raw {
		props[k] = fmt.Sprintf("%v", v)
	}
	return props, nil
}

// ParseIntProperty reads an integer property, falling back to the given
// default when the property is absent.
func ParseIntProperty(p Properties, key, defaultValue string) (int64, error) {
	propStr := p.GetDefault(key, defaultValue)
	v, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: property %s: %s is not an integer",
			ErrConfig, key, propStr)
	}
	return v, nil
}

func OutputProperties(p Properties) {
	Println("***************** properties *****************")
	if p != nil {
		for k, v := range p {
			Println("\"%s\"=\"%s\"", k, v)
		}
	}
	Println("**********************************************")
}

var (
	randomBytesLock   sync.Mutex
	randomBytesSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomBytes fills a new slice of the given length from the package-wide
// source. The source is shared by every worker goroutine, so it is
// guarded by a lock.
func RandomBytes(length int64) []byte {
	b := make([]byte, length)
	randomBytesLock.Lock()
	randomBytesSource.Read(b)
	randomBytesLock.Unlock()
	return b
}

// SplitNodes turns a comma separated node list into individual addresses.
func SplitNodes(nodes string) []string {
	parts := strings.Split(nodes, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 0 {
			ret = append(ret, p)
		}
	}
	return ret
}

func MillisecondToNanosecond(millis int64) int64 {
	return millis * 1000 * 1000
}

func MillisecondToSecond(millis int64) int64 {
	return millis / 1000
}

func SecondToNanosecond(second int64) int64 {
	return second * 1000 * 1000 * 1000
}

func NanosecondToMicrosecond(nano int64) int64 {
	return nano / 1000
}

func NanosecondToMillisecond(nano int64) int64 {
	return nano / 1000 / 1000
}
