// Command eloquactl explores and exports Eloqua data through the Bulk
// API. Credentials come from ELOQUA_* environment variables or a .env
// file.
package main

func main() {
	Execute()
}
