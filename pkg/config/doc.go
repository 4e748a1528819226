/*
Package config loads and validates the vectoriadb.yml configuration file.

The file lives under <base-path>/config/vectoriadb.yml and is parsed once at
startup. Memory pool sizes accept the usual b/k/kb/m/mb/g/gb suffixes
(case-insensitive); when the pool keys are absent, the host-memory probe
derives defaults from the discovered RAM.

	vectoriadb:
	  index:
	    dimensions: 128
	    max-connections-per-vertex: 128
	    max-candidates-returned: 128
	    compression-ratio: 32
	    distance-multiplier: 1.0
	    building:
	      max-memory-consumption: 2gb
	    search:
	      disk-cache-memory-consumption: 4gb
	  server:
	    base-path: /var/lib/vectoriadb
	    default-mode: build
*/
package config
