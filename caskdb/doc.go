// Package caskdb provides a client for interacting with a caskdb key-value
// store over TCP.
//
// Example:
//
//	client, err := caskdb.Connect()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Set("foo", "bar")
//	val, found, err := client.Get("foo")
package caskdb
