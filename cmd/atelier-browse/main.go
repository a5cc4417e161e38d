// Command atelier-browse pages through the journal, the gallery and the account list from a terminal
package main

func main() { Execute() }
