// Command romctl inspects and patches banked ROM images.
package main

func main() {
	execute()
}
