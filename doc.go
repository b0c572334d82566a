/*
Package adb drives Android devices through the Android Debug Bridge (adb).

A Server locates the adb executable, starts the local adb server and talks
to it over the host protocol for device enumeration and remote connects.
A Device is bound to one serial and shells into it through the adb
executable to capture the screen, inject taps and swipes and read the
display size and system properties.

The adb host protocol is described at https://android.googlesource.com/platform/system/core/+/master/adb/OVERVIEW.TXT.
*/
package adb
