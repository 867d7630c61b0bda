// Command telenovela is the CLI for the pipeline daemon. It talks to
// telenovelad over its HTTP API.
package main
