//go:build !mobile

// stub.go - 普通构建时的占位文件
// 绑定入口在 mobile.go，只在 -tags mobile 时编译
package mobile

// Dummy 保证包在普通构建时也能被引用
func Dummy() {}
