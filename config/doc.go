// Package config loads the ringdemo configuration.
//
// Configuration is built in layers: built-in defaults, then each file added with
// AddLayer (JSON or YAML, picked by extension), then RINGDEMO_* environment variables.
// Only keys present in a layer override the layer below.
//
// # Basic Usage
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/ringdemo.yaml")
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Overrides
//
//	RINGDEMO_RING_CAPACITY=4
//	RINGDEMO_RING_CLEAR_ON_REMOVE=false
//	RINGDEMO_RING_NAME_LENGTH=16
//	RINGDEMO_LOG_LEVEL=debug
//	RINGDEMO_LOG_FORMAT=json
//	RINGDEMO_METRICS_ENABLED=true
//	RINGDEMO_METRICS_PORT=9090
//	RINGDEMO_METRICS_PATH=/metrics
//	RINGDEMO_SCENARIOS=char,int
//
// Validation errors are classified as invalid (see errors.IsInvalid).
package config
