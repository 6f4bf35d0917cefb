package scenario

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/brunoga/deep"
	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// Library holds the scenarios found in a directory and keeps them in sync
// with it.
type Library struct {
	dir       string
	lock      sync.RWMutex
	scenarios map[string]Config
	files     map[string]string
	stop      chan bool
}

func NewLibrary(dir string) *Library {
	l := &Library{dir: dir}
	l.Reload()
	return l
}

// Reload rescans the directory. Files that fail to parse are logged and
// skipped.
func (l *Library) Reload() {
	var files []string
	err := filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && strings.HasSuffix(info.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Error walking scenario files")
		return
	}

	scenarios := make(map[string]Config)
	byName := make(map[string]string)
	for _, f := range files {
		cfg, err := Load(f)
		if err != nil {
			log.WithError(err).Errorf("Error loading scenario '%s'", f)
			continue
		}
		if prev, found := byName[cfg.Name]; found {
			log.Warnf("Scenario '%s' of '%s' already defined in '%s'", cfg.Name, f, prev)
			continue
		}
		scenarios[cfg.Name] = cfg
		byName[cfg.Name] = f
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	for name := range l.scenarios {
		if _, found := scenarios[name]; !found {
			log.Infof("Remove scenario %s", name)
		}
	}
	for name, f := range byName {
		if _, found := l.scenarios[name]; !found {
			log.Debugf("Add scenario %s from %s", name, f)
		}
	}
	l.scenarios = scenarios
	l.files = byName
}

func (l *Library) Names() []string {
	l.lock.RLock()
	defer l.lock.RUnlock()

	names := make([]string, 0, len(l.scenarios))
	for n := range l.scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named scenario, safe to modify.
func (l *Library) Get(name string) (Config, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	cfg, found := l.scenarios[name]
	if !found {
		return Config{}, false
	}
	return deep.MustCopy(cfg), true
}

// Watch reloads the directory every period seconds until Stop.
func (l *Library) Watch(period uint64) {
	if period == 0 {
		return
	}
	s := gocron.NewScheduler()
	s.Every(period).Seconds().Do(l.Reload)
	l.stop = s.Start()
}

func (l *Library) Stop() {
	if l.stop != nil {
		l.stop <- true
		l.stop = nil
	}
}
