// An app demonstrating most of the library's features.
package adb_test

import (
	"fmt"
	"os"
	"time"

	"github.com/d1ced/adbauto"
)

func Example() {
	path, err := adb.LookPath("")
	if err != nil {
		panic(err)
	}
	client, err := adb.New(path, adb.DefaultHost, adb.DefaultPort)
	if err != nil {
		panic(err)
	}

	serverVersion, _ := client.Version()
	fmt.Println("Server version:", serverVersion)

	deviceInfo, _ := client.ListDevices()

	fmt.Println("Devices:")
	for _, device := range deviceInfo {
		fmt.Println(device.Serial, device.State)
	}
	if len(deviceInfo) == 0 {
		return
	}

	device := client.Device(deviceInfo[0].Serial)
	desc, err := device.Describe()
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, field := range desc.Fields() {
		fmt.Printf("\t%s: %s (%s)\n", field.Key, field.Value, field.Status)
	}

	png, err := device.ScreenCapture()
	if err != nil {
		fmt.Println(err)
		return
	}
	os.WriteFile("screen.png", png, 0644)

	device.Tap(100, 200)
	device.Swipe(100, 800, 100, 200, 600*time.Millisecond)
}
