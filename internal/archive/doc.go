// Package archive streams a finished workspace into a Deflate compressed zip.
package archive
