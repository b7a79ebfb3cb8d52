/*
Package config loads the stopsync YAML configuration.

The configuration covers the autosave store path, the remote catalog
endpoint, the static schedule feed location and the view server port.
Every field has a sensible default; config.yml is optional.
*/
package config
